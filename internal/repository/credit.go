package repository

import (
	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Create 创建参与记录
func (r *CreditRepository) Create(credit *model.Credit) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(credit).Error
}

// ListByMovie 获取电影的全部参与影人（导演在前）
func (r *CreditRepository) ListByMovie(movieID int) ([]*model.Credit, error) {
	var credits []*model.Credit
	err := r.db.Preload("Artist").
		Where("movie_id = ?", movieID).
		Order("CASE role WHEN 'DIRECTOR' THEN 0 ELSE 1 END, id ASC").
		Find(&credits).Error
	return credits, err
}

// ListByArtist 获取影人参与的全部电影（作品集，按上映时间倒序）
func (r *CreditRepository) ListByArtist(artistID int) ([]*model.Credit, error) {
	var credits []*model.Credit
	err := r.db.Preload("Movie").
		Joins("JOIN movies ON movies.id = credits.movie_id").
		Where("credits.artist_id = ?", artistID).
		Order("movies.release_date DESC").
		Find(&credits).Error
	return credits, err
}

// DeleteByMovie 删除电影的所有参与记录
func (r *CreditRepository) DeleteByMovie(movieID int) error {
	return r.db.Where("movie_id = ?", movieID).Delete(&model.Credit{}).Error
}
