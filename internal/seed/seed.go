// Package seed 在空库启动时从 YAML 文件导入初始数据。
package seed

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// movieSeed YAML 中的电影条目
type movieSeed struct {
	Title         string   `yaml:"title" validate:"required"`
	OriginalTitle string   `yaml:"original_title"`
	ReleaseDate   string   `yaml:"release_date" validate:"required"`
	Runtime       int      `yaml:"runtime" validate:"gte=0"`
	Poster        string   `yaml:"poster"`
	Synopsis      string   `yaml:"synopsis"`
	Genres        []string `yaml:"genres"`
	Countries     []string `yaml:"countries"`
	Directors     []string `yaml:"directors"`
	Cast          []castSeed `yaml:"cast"`
}

type castSeed struct {
	Name      string `yaml:"name" validate:"required"`
	Character string `yaml:"character"`
}

type artistSeed struct {
	Name     string `yaml:"name" validate:"required"`
	Birthday string `yaml:"birthday"`
	Bio      string `yaml:"bio"`
	Photo    string `yaml:"photo"`
}

type seedFile struct {
	Artists []artistSeed `yaml:"artists"`
	Movies  []movieSeed  `yaml:"movies"`
}

// Run 空库启动时的引导：创建管理员账号（如已配置）并导入 SeedDir 下的 YAML 文件
func Run(repos *repository.Repositories, cfg *config.Config) error {
	if err := ensureAdmin(repos, cfg); err != nil {
		return err
	}

	count, err := repos.Movie.Count()
	if err != nil {
		return fmt.Errorf("检查电影数量失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cfg.SeedDir, "*.yml"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Printf("[Seed] 目录 %s 下没有种子文件，跳过导入", cfg.SeedDir)
		return nil
	}

	// 影人按名字去重，供参与记录引用
	artistIDs := make(map[string]int)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("读取种子文件 %s 失败: %w", file, err)
		}

		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return fmt.Errorf("解析种子文件 %s 失败: %w", file, err)
		}

		for _, a := range sf.Artists {
			if err := validate.Struct(a); err != nil {
				return fmt.Errorf("种子文件 %s 中的影人无效: %w", file, err)
			}
			if err := importArtist(repos, a, artistIDs); err != nil {
				return err
			}
		}

		for _, m := range sf.Movies {
			if err := validate.Struct(m); err != nil {
				return fmt.Errorf("种子文件 %s 中的电影无效: %w", file, err)
			}
			if err := importMovie(repos, m, artistIDs); err != nil {
				return err
			}
		}
	}

	log.Printf("[Seed] 种子数据导入完成，共 %d 个文件", len(files))
	return nil
}

// ensureAdmin 按 ADMIN_EMAIL / ADMIN_PASSWORD 创建管理员账号，已存在时跳过
func ensureAdmin(repos *repository.Repositories, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	existing, err := repos.User.FindByEmail(cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("查找管理员账号失败: %w", err)
	}
	if existing != nil {
		return nil
	}

	user, err := repos.User.Create(cfg.AdminEmail, "admin", cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("创建管理员账号失败: %w", err)
	}
	if err := repos.User.UpdateRole(user.ID, "admin"); err != nil {
		return fmt.Errorf("设置管理员角色失败: %w", err)
	}

	log.Printf("[Seed] 已创建管理员账号 %s", cfg.AdminEmail)
	return nil
}

func importArtist(repos *repository.Repositories, a artistSeed, artistIDs map[string]int) error {
	if _, ok := artistIDs[a.Name]; ok {
		return nil
	}

	artist := &model.Artist{
		Name:  a.Name,
		Bio:   a.Bio,
		Photo: a.Photo,
	}
	if a.Birthday != "" {
		t, err := time.Parse("2006-01-02", a.Birthday)
		if err != nil {
			return fmt.Errorf("影人 %s 的生日格式无效: %w", a.Name, err)
		}
		artist.Birthday = &t
	}

	if err := repos.Artist.Create(artist); err != nil {
		return fmt.Errorf("创建影人 %s 失败: %w", a.Name, err)
	}
	artistIDs[a.Name] = artist.ID
	return nil
}

func importMovie(repos *repository.Repositories, m movieSeed, artistIDs map[string]int) error {
	release, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return fmt.Errorf("电影 %s 的上映日期格式无效: %w", m.Title, err)
	}

	movie := &model.Movie{
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		ReleaseDate:   release,
		Runtime:       m.Runtime,
		Poster:        m.Poster,
		Synopsis:      m.Synopsis,
		Genres:        m.Genres,
		Countries:     m.Countries,
	}
	if err := repos.Movie.Create(movie); err != nil {
		return fmt.Errorf("创建电影 %s 失败: %w", m.Title, err)
	}

	for _, name := range m.Directors {
		artistID, err := resolveArtist(repos, name, artistIDs)
		if err != nil {
			return err
		}
		credit := &model.Credit{
			MovieID:  movie.ID,
			ArtistID: artistID,
			Role:     model.CreditRoleDirector,
		}
		if err := repos.Credit.Create(credit); err != nil {
			return fmt.Errorf("创建导演记录失败: %w", err)
		}
	}

	for _, c := range m.Cast {
		artistID, err := resolveArtist(repos, c.Name, artistIDs)
		if err != nil {
			return err
		}
		credit := &model.Credit{
			MovieID:   movie.ID,
			ArtistID:  artistID,
			Role:      model.CreditRoleActor,
			Character: c.Character,
		}
		if err := repos.Credit.Create(credit); err != nil {
			return fmt.Errorf("创建演员记录失败: %w", err)
		}
	}

	return nil
}

// resolveArtist 查找或创建只有名字的影人
func resolveArtist(repos *repository.Repositories, name string, artistIDs map[string]int) (int, error) {
	if id, ok := artistIDs[name]; ok {
		return id, nil
	}
	artist := &model.Artist{Name: name}
	if err := repos.Artist.Create(artist); err != nil {
		return 0, fmt.Errorf("创建影人 %s 失败: %w", name, err)
	}
	artistIDs[name] = artist.ID
	return artist.ID, nil
}
