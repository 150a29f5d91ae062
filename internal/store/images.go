package store

import (
	"bitwise74/account-api/internal/model"
	"context"

	"gorm.io/gorm"
)

type Images struct {
	db *gorm.DB
}

func NewImages(db *gorm.DB) *Images {
	return &Images{db: db}
}

func (s *Images) List(ctx context.Context) ([]model.Image, error) {
	images := []model.Image{}

	err := s.db.WithContext(ctx).
		Order("id asc").
		Find(&images).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return images, nil
}

func (s *Images) Create(ctx context.Context, img *model.Image) error {
	return translate(s.db.WithContext(ctx).Create(img).Error)
}

func (s *Images) ByID(ctx context.Context, id uint) (*model.Image, error) {
	var img model.Image

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&img).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &img, nil
}

func (s *Images) Delete(ctx context.Context, id uint) error {
	r := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Image{})
	if r.Error != nil {
		return translate(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
