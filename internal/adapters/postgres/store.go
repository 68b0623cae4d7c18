package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkeye/livecast/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func (s *Store) InsertChat(ctx context.Context, sid domain.SessionID, author domain.Identity, body string) (domain.ChatMessage, error) {
	msg := domain.ChatMessage{SessionID: sid, Author: author, Body: body}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO chats (stream_id, user_id, message) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		int64(sid), int64(author.ID), body,
	).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		return domain.ChatMessage{}, storageErr("insert chat", err)
	}
	msg.Timestamp = msg.Timestamp.UTC()
	return msg, nil
}

func (s *Store) UpsertViewerCount(ctx context.Context, sid domain.SessionID, count int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE streams SET viewer_count = $2, updated_at = now() WHERE id = $1`,
		int64(sid), count,
	)
	if err != nil {
		return storageErr("update viewer count", err)
	}
	return nil
}

func (s *Store) RecordViewer(ctx context.Context, sid domain.SessionID, uid domain.UserID, present bool) error {
	var err error
	if present {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO stream_viewers (stream_id, user_id) VALUES ($1, $2)
			 ON CONFLICT (stream_id, user_id) DO NOTHING`,
			int64(sid), int64(uid),
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`DELETE FROM stream_viewers WHERE stream_id = $1 AND user_id = $2`,
			int64(sid), int64(uid),
		)
	}
	if err != nil {
		return storageErr("record viewer", err)
	}
	return nil
}

func (s *Store) IsBanned(ctx context.Context, owner, uid domain.UserID) (bool, error) {
	var banned bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_bans WHERE user_id = $1 AND banned_user_id = $2)`,
		int64(owner), int64(uid),
	).Scan(&banned)
	if err != nil {
		return false, storageErr("check ban", err)
	}
	return banned, nil
}

func (s *Store) CreateBan(ctx context.Context, ban domain.Ban) (domain.Ban, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO chat_bans (user_id, banned_user_id, reason) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		int64(ban.ModeratorID), int64(ban.TargetID), ban.Reason,
	).Scan(&ban.ID, &ban.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return domain.Ban{}, domain.ErrAlreadyBanned
			case foreignKeyViolation:
				return domain.Ban{}, domain.ErrUserNotFound
			}
		}
		return domain.Ban{}, storageErr("create ban", err)
	}
	ban.CreatedAt = ban.CreatedAt.UTC()
	return ban, nil
}

func (s *Store) DeleteBan(ctx context.Context, owner, target domain.UserID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM chat_bans WHERE user_id = $1 AND banned_user_id = $2`,
		int64(owner), int64(target),
	)
	if err != nil {
		return storageErr("delete ban", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBanNotFound
	}
	return nil
}

func (s *Store) ListBans(ctx context.Context, owner domain.UserID) ([]domain.Ban, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, banned_user_id, reason, created_at
		 FROM chat_bans WHERE user_id = $1 ORDER BY id`,
		int64(owner),
	)
	if err != nil {
		return nil, storageErr("list bans", err)
	}
	bans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Ban, error) {
		var (
			b           domain.Ban
			mod, target int64
		)
		err := row.Scan(&b.ID, &mod, &target, &b.Reason, &b.CreatedAt)
		b.ModeratorID, b.TargetID = domain.UserID(mod), domain.UserID(target)
		b.CreatedAt = b.CreatedAt.UTC()
		return b, err
	})
	if err != nil {
		return nil, storageErr("scan bans", err)
	}
	return bans, nil
}

func (s *Store) OwnerOf(ctx context.Context, sid domain.SessionID) (domain.UserID, error) {
	var owner int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM streams WHERE id = $1`, int64(sid)).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrSessionNotFound
	}
	if err != nil {
		return 0, storageErr("get stream owner", err)
	}
	return domain.UserID(owner), nil
}

func (s *Store) SessionsOwnedBy(ctx context.Context, uid domain.UserID) ([]domain.SessionID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM streams WHERE user_id = $1 ORDER BY id`, int64(uid))
	if err != nil {
		return nil, storageErr("list streams", err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SessionID, error) {
		var id int64
		err := row.Scan(&id)
		return domain.SessionID(id), err
	})
	if err != nil {
		return nil, storageErr("scan streams", err)
	}
	return ids, nil
}

func (s *Store) UserByID(ctx context.Context, uid domain.UserID) (domain.Identity, error) {
	who := domain.Identity{ID: uid}
	err := s.pool.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, int64(uid)).Scan(&who.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.Identity{}, storageErr("get user", err)
	}
	return who, nil
}

// CreateUser and CreateStream seed rows owned by collaborators outside this
// service. Used by tests and local tooling.
func (s *Store) CreateUser(ctx context.Context, username string) (domain.Identity, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username) VALUES ($1) RETURNING id`, username,
	).Scan(&id)
	if err != nil {
		return domain.Identity{}, storageErr("create user", err)
	}
	return domain.Identity{ID: domain.UserID(id), Username: username}, nil
}

func (s *Store) CreateStream(ctx context.Context, owner domain.UserID, title string) (domain.SessionID, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO streams (user_id, title) VALUES ($1, $2) RETURNING id`,
		int64(owner), title,
	).Scan(&id)
	if err != nil {
		return 0, storageErr("create stream", err)
	}
	return domain.SessionID(id), nil
}

func (s *Store) ViewerCount(ctx context.Context, sid domain.SessionID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT viewer_count FROM streams WHERE id = $1`, int64(sid)).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrSessionNotFound
	}
	if err != nil {
		return 0, storageErr("get viewer count", err)
	}
	return n, nil
}
