package model

import (
	"time"
)

// RemoteRating 评分微服务中的评分（不在本地持久化，远端为权威数据）
type RemoteRating struct {
	UserID    int       `json:"user_id"`
	MovieID   int       `json:"movie_id"`
	Value     int       `json:"value"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RemoteReview 评论微服务中的评论（Rating 镜像写入时刻的评分，可为空）
type RemoteReview struct {
	UserID    int       `json:"user_id"`
	MovieID   int       `json:"movie_id"`
	Rating    *int      `json:"rating"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// MovieRatingStats 电影评分统计
type MovieRatingStats struct {
	MovieID int     `json:"movie_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// MovieReviewStats 电影评论统计
type MovieReviewStats struct {
	MovieID int `json:"movie_id"`
	Count   int `json:"count"`
}

// UserRatingStats 用户评分统计
type UserRatingStats struct {
	UserID  int     `json:"user_id"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// UserReviewStats 用户评论统计
type UserReviewStats struct {
	UserID int `json:"user_id"`
	Count  int `json:"count"`
}

// ReviewPage 评论分页结果
type ReviewPage struct {
	Reviews    []RemoteReview `json:"reviews"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalCount int            `json:"total_count"`
}
