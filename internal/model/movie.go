package model

import (
	"time"

	"github.com/lib/pq"
)

// Movie 电影模型
type Movie struct {
	ID            int            `json:"id" db:"id"`
	Title         string         `json:"title" db:"title" gorm:"index"`
	OriginalTitle string         `json:"original_title" db:"original_title"`
	ReleaseDate   time.Time      `json:"release_date" db:"release_date" gorm:"index"`
	Runtime       int            `json:"runtime" db:"runtime"` // 片长（分钟）
	Poster        string         `json:"poster" db:"poster"`
	Synopsis      string         `json:"synopsis" db:"synopsis"`
	Genres        pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	Countries     pq.StringArray `json:"countries" db:"countries" gorm:"type:text[]"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Artist 影人（导演/演员）
type Artist struct {
	ID       int        `json:"id" db:"id"`
	Name     string     `json:"name" db:"name" gorm:"index"`
	Birthday *time.Time `json:"birthday" db:"birthday"`
	Bio      string     `json:"bio" db:"bio"`
	Photo    string     `json:"photo" db:"photo"`
}

// Credit 参与记录（电影与影人的关联）
type Credit struct {
	ID        int    `json:"id" db:"id"`
	MovieID   int    `json:"movie_id" db:"movie_id" gorm:"index"`
	ArtistID  int    `json:"artist_id" db:"artist_id" gorm:"index"`
	Role      string `json:"role" db:"role"` // DIRECTOR / ACTOR
	Character string `json:"character" db:"character"`
	Artist    *Artist `json:"artist,omitempty"` // 关联查询时填充
	Movie     *Movie  `json:"movie,omitempty"`
}

// 参与角色
const (
	CreditRoleDirector = "DIRECTOR"
	CreditRoleActor    = "ACTOR"
)
