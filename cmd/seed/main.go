// Command seed loads a few sample artworks, optionally wiping the artwork tables first.
package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/utils"
)

var samples = []models.Artwork{
	{
		Title:       "푸른 새의 연작 - 1",
		Artist:      "이용준",
		Medium:      "아크릴",
		Description: "22cm 정사각 캔버스에 작업한 푸른 새 시리즈의 첫 번째 작품입니다.",
		ImageFile:   "test1.jpg",
		Room:        5,
	},
	{
		Title:       "기하학적 추상",
		Artist:      "박희호",
		Medium:      "유화",
		Description: "다양한 도형을 활용하여 현대인의 고독을 표현했습니다.",
		ImageFile:   "test2.jpg",
		Room:        3,
	},
	{
		Title:       "디지털 정원",
		Artist:      "김세은",
		Medium:      "디지털",
		Description: "아이패드를 사용하여 작업한 디지털 아트웍입니다.",
		ImageFile:   "test3.jpg",
		Room:        1,
	},
}

func main() {
	reset := flag.Bool("reset", false, "delete existing artworks, comments and daily statistics first")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	db := config.InitDatabase(cfg, models.All()...)
	n, err := seed(db, *reset)
	if err != nil {
		utils.Logger.Fatal("seed failed", zap.Error(err))
	}
	utils.Sugar.Infof("%d sample artworks added", n)
}

func seed(db *gorm.DB, reset bool) (int, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if reset {
			for _, m := range []interface{}{&models.Comment{}, &models.Artwork{}, &models.DailyStat{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
					return fmt.Errorf("clear %T: %w", m, err)
				}
			}
		}
		rows := make([]models.Artwork, len(samples))
		copy(rows, samples)
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}
