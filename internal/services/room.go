package services

import (
	"context"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

// RoomCache holds room listings keyed by filter.
type RoomCache interface {
	GetRooms(ctx context.Context, key string) ([]*models.Room, bool)
	SetRooms(ctx context.Context, key string, rooms []*models.Room)
	Invalidate(ctx context.Context)
}

// RoomService serves the room catalogue.
type RoomService struct {
	store storage.Store
	cache RoomCache
}

// NewRoomService creates a new room service. cache may be nil.
func NewRoomService(store storage.Store, cache RoomCache) *RoomService {
	return &RoomService{store: store, cache: cache}
}

// ListRooms returns in-service rooms, optionally of one type.
func (r *RoomService) ListRooms(ctx context.Context, roomType string) ([]*models.Room, error) {
	key := "available:" + roomType
	if roomType == "" {
		key = "available:all"
	}
	if r.cache != nil {
		if rooms, ok := r.cache.GetRooms(ctx, key); ok {
			return rooms, nil
		}
	}

	rooms, err := r.store.ListRooms(ctx, storage.RoomFilter{RoomType: roomType, AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.SetRooms(ctx, key, rooms)
	}
	return rooms, nil
}

// GetRoom returns one room.
func (r *RoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, err := r.store.GetRoom(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, ErrRoomNotFound)
	}
	return room, nil
}

// InvalidateCache drops cached listings after the catalogue changes.
func (r *RoomService) InvalidateCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Invalidate(ctx)
	}
}
