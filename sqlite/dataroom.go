package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lawdit/lawdit"
)

// Compile-time interface verification.
var _ lawdit.DataRoomService = (*DataRoomService)(nil)

// DataRoomService implements lawdit.DataRoomService using SQLite.
type DataRoomService struct {
	db *DB
}

// NewDataRoomService creates a new DataRoomService.
func NewDataRoomService(db *DB) *DataRoomService {
	return &DataRoomService{db: db}
}

// CreateDataRoom creates a new data room.
func (s *DataRoomService) CreateDataRoom(ctx context.Context, room *lawdit.DataRoom) error {
	if err := room.Validate(); err != nil {
		return err
	}
	if err := s.checkNameFree(ctx, room.Name, ""); err != nil {
		return err
	}

	room.ID = uuid.New().String()
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO data_rooms (id, name, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, room.ID, room.Name, room.Source, formatTime(room.CreatedAt), formatTime(room.UpdatedAt))

	return err
}

// FindDataRoomByID retrieves a data room by ID.
func (s *DataRoomService) FindDataRoomByID(ctx context.Context, id string) (*lawdit.DataRoom, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source, created_at, updated_at
		FROM data_rooms
		WHERE id = ?
	`, id)

	room, err := scanDataRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lawdit.Errorf(lawdit.ENOTFOUND, "data room not found")
	}
	return room, err
}

// FindDataRooms retrieves data rooms matching the filter, ordered by name.
func (s *DataRoomService) FindDataRooms(ctx context.Context, filter lawdit.DataRoomFilter) ([]*lawdit.DataRoom, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, source, created_at, updated_at FROM data_rooms WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*lawdit.DataRoom
	for rows.Next() {
		room, err := scanDataRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// UpdateDataRoom updates an existing data room.
func (s *DataRoomService) UpdateDataRoom(ctx context.Context, id string, upd lawdit.DataRoomUpdate) (*lawdit.DataRoom, error) {
	room, err := s.FindDataRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		room.Name = *upd.Name
	}
	if upd.Source != nil {
		room.Source = *upd.Source
	}

	if err := room.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, room.Name, id); err != nil {
		return nil, err
	}

	room.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE data_rooms
		SET name = ?, source = ?, updated_at = ?
		WHERE id = ?
	`, room.Name, room.Source, formatTime(room.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return room, nil
}

// DeleteDataRoom permanently removes a data room. Documents, pages and
// analyses are removed by foreign key cascade.
func (s *DataRoomService) DeleteDataRoom(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM data_rooms WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return lawdit.Errorf(lawdit.ENOTFOUND, "data room not found")
	}

	return nil
}

// checkNameFree returns ECONFLICT if another data room uses name.
func (s *DataRoomService) checkNameFree(ctx context.Context, name, exceptID string) error {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM data_rooms WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if id == exceptID {
		return nil
	}
	return lawdit.Errorf(lawdit.ECONFLICT, "data room %q already exists", name)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataRoom(row scanner) (*lawdit.DataRoom, error) {
	var room lawdit.DataRoom
	var createdAt, updatedAt string

	if err := row.Scan(&room.ID, &room.Name, &room.Source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if room.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if room.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &room, nil
}
