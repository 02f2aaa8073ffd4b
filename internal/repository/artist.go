package repository

import (
	"errors"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type ArtistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// FindByID 根据 ID 查找影人
func (r *ArtistRepository) FindByID(id int) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.First(&artist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// SearchByName 按姓名模糊搜索
func (r *ArtistRepository) SearchByName(keyword string, limit int) ([]*model.Artist, error) {
	var artists []*model.Artist
	err := r.db.Where("name ILIKE ?", "%"+keyword+"%").
		Order("name ASC").
		Limit(limit).
		Find(&artists).Error
	return artists, err
}

// List 分页获取影人列表
func (r *ArtistRepository) List(limit, offset int) ([]*model.Artist, error) {
	var artists []*model.Artist
	err := r.db.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&artists).Error
	return artists, err
}

// Create 创建影人
func (r *ArtistRepository) Create(artist *model.Artist) error {
	return r.db.Create(artist).Error
}

// Update 更新影人
func (r *ArtistRepository) Update(artist *model.Artist) error {
	return r.db.Save(artist).Error
}

// Delete 删除影人
func (r *ArtistRepository) Delete(id int) error {
	return r.db.Delete(&model.Artist{}, id).Error
}

// Count 影人总数
func (r *ArtistRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Artist{}).Count(&count).Error
	return count, err
}
