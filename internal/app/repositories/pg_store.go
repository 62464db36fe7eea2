package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/thesismatch/internal/db"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/dberrors"
	"github.com/yigit/thesismatch/internal/pkg/logger"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

const recordsTable = "records"

// PGStore is a recordstore.Store over the shared records table, one
// collection per record type. Each record is kept whole in a jsonb column.
type PGStore[T any, PT recordstore.Record[T]] struct {
	db         *db.PostgresDB
	collection string
	sb         squirrel.StatementBuilderType
}

// NewPGStore creates a store for one collection
func NewPGStore[T any, PT recordstore.Record[T]](database *db.PostgresDB, collection string) *PGStore[T, PT] {
	return &PGStore[T, PT]{
		db:         database,
		collection: collection,
		sb:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PGStore[T, PT]) notFound(id string) error {
	return fmt.Errorf("%s %q: %w", s.collection, id, apperrors.ErrResourceNotFound)
}

func (s *PGStore[T, PT]) decode(raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s record: %w", s.collection, err)
	}
	return v, nil
}

// FindAll loads the collection in creation order and filters it with pred
func (s *PGStore[T, PT]) FindAll(ctx context.Context, pred recordstore.Predicate[T]) ([]T, error) {
	query, args, err := s.sb.Select("data").
		From(recordsTable).
		Where(squirrel.Eq{"collection": s.collection}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find %s query: %w", s.collection, err)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", s.collection).Msg("Error querying records")
		return nil, fmt.Errorf("error listing %s: %w", s.collection, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("error scanning %s record: %w", s.collection, err)
		}
		v, err := s.decode(raw)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(v) {
			out = append(out, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", s.collection, err)
	}
	return out, nil
}

// FindByID returns one record
func (s *PGStore[T, PT]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	query, args, err := s.sb.Select("data").
		From(recordsTable).
		Where(squirrel.Eq{"collection": s.collection, "id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build get %s query: %w", s.collection, err)
	}

	var raw []byte
	if err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, s.notFound(id)
		}
		return zero, fmt.Errorf("error getting %s record: %w", s.collection, err)
	}
	return s.decode(raw)
}

// FindOne returns the first record matching pred
func (s *PGStore[T, PT]) FindOne(ctx context.Context, pred recordstore.Predicate[T]) (T, error) {
	var zero T
	all, err := s.FindAll(ctx, pred)
	if err != nil {
		return zero, err
	}
	if len(all) == 0 {
		return zero, fmt.Errorf("%s: %w", s.collection, apperrors.ErrResourceNotFound)
	}
	return all[0], nil
}

// Create inserts the record with a fresh id and timestamps
func (s *PGStore[T, PT]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	now := time.Now().UTC()
	p := PT(&record)
	p.SetID(uuid.New().String())
	p.SetTimestamps(now, now)

	raw, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s record: %w", s.collection, err)
	}

	query, args, err := s.sb.Insert(recordsTable).
		Columns("collection", "id", "data", "created_at", "updated_at").
		Values(s.collection, p.GetID(), raw, now, now).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("failed to build create %s query: %w", s.collection, err)
	}

	if _, err := s.db.Pool.Exec(ctx, query, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return zero, fmt.Errorf("%s: %w", s.collection, apperrors.ErrResourceAlreadyExists)
		}
		logger.Error().Err(err).Str("collection", s.collection).Msg("Error inserting record")
		return zero, fmt.Errorf("error creating %s record: %w", s.collection, err)
	}
	return record, nil
}

// Update locks the row, applies patch and writes it back in one transaction
func (s *PGStore[T, PT]) Update(ctx context.Context, id string, patch recordstore.Patch[T]) (T, error) {
	var updated T
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query, args, err := s.sb.Select("data").
			From(recordsTable).
			Where(squirrel.Eq{"collection": s.collection, "id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock %s query: %w", s.collection, err)
		}

		var raw []byte
		if err := tx.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.notFound(id)
			}
			return fmt.Errorf("error locking %s record: %w", s.collection, err)
		}

		current, err := s.decode(raw)
		if err != nil {
			return err
		}
		createdAt := PT(&current).GetCreatedAt()
		if patch != nil {
			if err := patch(&current); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		p := PT(&current)
		p.SetID(id)
		p.SetTimestamps(createdAt, now)

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to encode %s record: %w", s.collection, err)
		}

		query, args, err = s.sb.Update(recordsTable).
			Set("data", data).
			Set("updated_at", now).
			Where(squirrel.Eq{"collection": s.collection, "id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update %s query: %w", s.collection, err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return fmt.Errorf("%s: %w", s.collection, apperrors.ErrResourceAlreadyExists)
			}
			return fmt.Errorf("error updating %s record: %w", s.collection, err)
		}
		updated = current
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Delete removes the record; false means it did not exist
func (s *PGStore[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := s.sb.Delete(recordsTable).
		Where(squirrel.Eq{"collection": s.collection, "id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete %s query: %w", s.collection, err)
	}

	tag, err := s.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("collection", s.collection).Msg("Error deleting record")
		return false, fmt.Errorf("error deleting %s record: %w", s.collection, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count counts matching records. Without a predicate it is answered by the database.
func (s *PGStore[T, PT]) Count(ctx context.Context, pred recordstore.Predicate[T]) (int, error) {
	if pred != nil {
		all, err := s.FindAll(ctx, pred)
		if err != nil {
			return 0, err
		}
		return len(all), nil
	}

	query, args, err := s.sb.Select("COUNT(*)").
		From(recordsTable).
		Where(squirrel.Eq{"collection": s.collection}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count %s query: %w", s.collection, err)
	}
	var n int
	if err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s records: %w", s.collection, err)
	}
	return n, nil
}
