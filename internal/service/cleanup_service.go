package service

import (
	"log"
	"time"
)

// 活动记录保留期：6 个月
const retentionMonths = 6

// CleanupService 清理服务：定期删除超过保留期的活动记录
// 清理天然幂等，同一窗口跑两次第二次不会多删。失败只记日志，下个周期重试。
type CleanupService struct {
	activity *ActivityService
}

// NewCleanupService 创建清理服务
func NewCleanupService(activity *ActivityService) *CleanupService {
	return &CleanupService{activity: activity}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	// 每天执行一次
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[CleanupService] 清理任务发生恐慌: %v", r)
		}
	}()

	log.Println("[CleanupService] 开始清理过期活动记录...")

	cutoff := time.Now().AddDate(0, -retentionMonths, 0)
	affected, err := s.activity.PurgeOlderThan(cutoff)
	if err != nil {
		log.Printf("[CleanupService] 清理活动记录失败: %v", err)
		return
	}

	if affected > 0 {
		log.Printf("[CleanupService] 已清理 %d 条超过 %d 个月的活动记录", affected, retentionMonths)
	}
}
