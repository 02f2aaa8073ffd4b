package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie

	err := r.db.Model(&model.Movie{}).
		Select("id", "title", "original_title", "release_date", "runtime", "poster",
			"synopsis", "genres", "countries", "created_at", "updated_at").
		Where("id = ?", id).
		Row().Scan(
		&movie.ID, &movie.Title, &movie.OriginalTitle, &movie.ReleaseDate,
		&movie.Runtime, &movie.Poster, &movie.Synopsis,
		&movie.Genres, &movie.Countries,
		&movie.CreatedAt, &movie.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, err
	}

	return &movie, nil
}

// FindByIDs 根据 ID 集合批量查找电影，返回 movieID -> Movie 的映射
// 顺序由调用方自行决定（榜单需要保持自己的排序）
func (r *MovieRepository) FindByIDs(ids []int) (map[int]*model.Movie, error) {
	result := make(map[int]*model.Movie)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Model(&model.Movie{}).
		Select("id", "title", "original_title", "release_date", "runtime", "poster",
			"synopsis", "genres", "countries", "created_at", "updated_at").
		Where("id IN ?", ids).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var movie model.Movie
		if err := rows.Scan(
			&movie.ID, &movie.Title, &movie.OriginalTitle, &movie.ReleaseDate,
			&movie.Runtime, &movie.Poster, &movie.Synopsis,
			&movie.Genres, &movie.Countries,
			&movie.CreatedAt, &movie.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m := movie
		result[m.ID] = &m
	}

	return result, rows.Err()
}

// SearchByTitle 按标题模糊搜索
func (r *MovieRepository) SearchByTitle(keyword string, limit int) ([]*model.Movie, error) {
	rows, err := r.db.Model(&model.Movie{}).
		Select("id", "title", "original_title", "release_date", "runtime", "poster",
			"synopsis", "genres", "countries", "created_at", "updated_at").
		Where("title ILIKE ? OR original_title ILIKE ?", "%"+keyword+"%", "%"+keyword+"%").
		Order("release_date DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovies(rows)
}

// List 分页获取电影列表
func (r *MovieRepository) List(limit, offset int) ([]*model.Movie, error) {
	rows, err := r.db.Model(&model.Movie{}).
		Select("id", "title", "original_title", "release_date", "runtime", "poster",
			"synopsis", "genres", "countries", "created_at", "updated_at").
		Order("release_date DESC").
		Limit(limit).
		Offset(offset).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovies(rows)
}

// ListByReleaseProximity 按上映日期与指定日期的距离升序获取电影
// 用于活动量不足时的榜单兜底（上映日期最接近今天的排前面）
func (r *MovieRepository) ListByReleaseProximity(today time.Time, limit int) ([]*model.Movie, error) {
	rows, err := r.db.Raw(`
		SELECT id, title, original_title, release_date, runtime, poster,
		       synopsis, genres, countries, created_at, updated_at
		FROM movies
		ORDER BY ABS(EXTRACT(EPOCH FROM (release_date - $1::timestamptz))) ASC
		LIMIT $2
	`, today, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovies(rows)
}

// Count 电影总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}

// Create 创建电影
func (r *MovieRepository) Create(movie *model.Movie) error {
	now := time.Now()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = now

	return r.db.Raw(`
		INSERT INTO movies (title, original_title, release_date, runtime, poster,
		                    synopsis, genres, countries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, movie.Title, movie.OriginalTitle, movie.ReleaseDate, movie.Runtime, movie.Poster,
		movie.Synopsis, movie.Genres, movie.Countries,
		movie.CreatedAt, movie.UpdatedAt).Scan(&movie.ID).Error
}

// Update 更新电影
func (r *MovieRepository) Update(movie *model.Movie) error {
	return r.db.Exec(`
		UPDATE movies SET
			title = $1,
			original_title = $2,
			release_date = $3,
			runtime = $4,
			poster = $5,
			synopsis = $6,
			genres = $7,
			countries = $8,
			updated_at = $9
		WHERE id = $10
	`, movie.Title, movie.OriginalTitle, movie.ReleaseDate, movie.Runtime, movie.Poster,
		movie.Synopsis, movie.Genres, movie.Countries,
		time.Now(), movie.ID).Error
}

// Delete 删除电影
func (r *MovieRepository) Delete(id int) error {
	return r.db.Delete(&model.Movie{}, id).Error
}

// ListGenres 获取全部类型（去重）
func (r *MovieRepository) ListGenres() ([]string, error) {
	var genres []string
	err := r.db.Raw(`
		SELECT DISTINCT unnest(genres) AS genre FROM movies ORDER BY genre
	`).Scan(&genres).Error
	return genres, err
}

// scanMovies 扫描电影结果集
func scanMovies(rows *sql.Rows) ([]*model.Movie, error) {
	var movies []*model.Movie
	for rows.Next() {
		var movie model.Movie
		if err := rows.Scan(
			&movie.ID, &movie.Title, &movie.OriginalTitle, &movie.ReleaseDate,
			&movie.Runtime, &movie.Poster, &movie.Synopsis,
			&movie.Genres, &movie.Countries,
			&movie.CreatedAt, &movie.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m := movie
		movies = append(movies, &m)
	}
	return movies, rows.Err()
}
