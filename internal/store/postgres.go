package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatwire/chatwire/internal/models"
)

const uniqueViolation = "23505"

// PostgresStore persists documents as JSONB rows in user_docs and group_docs.
// Updates are serialized by the same in-process keyed lock the file store
// uses; the store assumes a single server process owns the database.
type PostgresStore struct {
	pool  *pgxpool.Pool
	locks *keyLock
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, locks: newKeyLock()}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_docs (email, doc) VALUES ($1, $2)`,
		user.UserEmail, doc,
	)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM user_docs WHERE email = $1`, email,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM user_docs WHERE doc->>'userId' = $1`, id,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM user_docs ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		var user models.User
		if err := json.Unmarshal(doc, &user); err != nil {
			return nil, fmt.Errorf("decoding user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (s *PostgresStore) UpdateUser(ctx context.Context, email string, mutate func(*models.User) error) (*models.User, error) {
	unlock := s.locks.Lock("user:" + email)
	defer unlock()

	user, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := mutate(user); err != nil {
		return nil, err
	}
	if err := s.writeUser(ctx, s.pool, user); err != nil {
		return nil, err
	}
	return user, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PostgresStore) writeUser(ctx context.Context, db execer, user *models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	tag, err := db.Exec(ctx,
		`UPDATE user_docs SET doc = $2, updated_at = now() WHERE email = $1`,
		user.UserEmail, doc,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateUserPair(ctx context.Context, emailA, emailB string, mutate func(a, b *models.User) error) error {
	unlock := s.locks.LockPair("user:"+emailA, "user:"+emailB)
	defer unlock()

	userA, err := s.GetUser(ctx, emailA)
	if err != nil {
		return err
	}
	userB, err := s.GetUser(ctx, emailB)
	if err != nil {
		return err
	}
	if err := mutate(userA, userB); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.writeUser(ctx, tx, userA); err != nil {
		return err
	}
	if err := s.writeUser(ctx, tx, userB); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	doc, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("encoding group: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO group_docs (name, doc) VALUES ($1, $2)`,
		group.GroupName, doc,
	)
	if isUniqueViolation(err) {
		return ErrGroupExists
	}
	if err != nil {
		return fmt.Errorf("inserting group: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM group_docs WHERE name = $1`, name,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying group: %w", err)
	}

	var group models.Group
	if err := json.Unmarshal(doc, &group); err != nil {
		return nil, fmt.Errorf("decoding group: %w", err)
	}
	return &group, nil
}

func (s *PostgresStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM group_docs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		var group models.Group
		if err := json.Unmarshal(doc, &group); err != nil {
			return nil, fmt.Errorf("decoding group: %w", err)
		}
		groups = append(groups, &group)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) UpdateGroup(ctx context.Context, name string, mutate func(*models.Group) error) (*models.Group, error) {
	unlock := s.locks.Lock("group:" + name)
	defer unlock()

	group, err := s.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := mutate(group); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("encoding group: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE group_docs SET doc = $2, updated_at = now() WHERE name = $1`,
		name, doc,
	)
	if err != nil {
		return nil, fmt.Errorf("updating group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
