package mock

import (
	"context"

	"github.com/lawdit/lawdit"
)

var _ lawdit.DataRoomService = (*DataRoomService)(nil)

// DataRoomService is a mock implementation of lawdit.DataRoomService.
type DataRoomService struct {
	CreateDataRoomFn   func(ctx context.Context, room *lawdit.DataRoom) error
	FindDataRoomByIDFn func(ctx context.Context, id string) (*lawdit.DataRoom, error)
	FindDataRoomsFn    func(ctx context.Context, filter lawdit.DataRoomFilter) ([]*lawdit.DataRoom, error)
	UpdateDataRoomFn   func(ctx context.Context, id string, upd lawdit.DataRoomUpdate) (*lawdit.DataRoom, error)
	DeleteDataRoomFn   func(ctx context.Context, id string) error
}

func (s *DataRoomService) CreateDataRoom(ctx context.Context, room *lawdit.DataRoom) error {
	return s.CreateDataRoomFn(ctx, room)
}

func (s *DataRoomService) FindDataRoomByID(ctx context.Context, id string) (*lawdit.DataRoom, error) {
	return s.FindDataRoomByIDFn(ctx, id)
}

func (s *DataRoomService) FindDataRooms(ctx context.Context, filter lawdit.DataRoomFilter) ([]*lawdit.DataRoom, error) {
	return s.FindDataRoomsFn(ctx, filter)
}

func (s *DataRoomService) UpdateDataRoom(ctx context.Context, id string, upd lawdit.DataRoomUpdate) (*lawdit.DataRoom, error) {
	return s.UpdateDataRoomFn(ctx, id, upd)
}

func (s *DataRoomService) DeleteDataRoom(ctx context.Context, id string) error {
	return s.DeleteDataRoomFn(ctx, id)
}
