package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
)

// demoProduct is a hand-curated catalog row for local development.
type demoProduct struct {
	reportNo       string
	name           string
	seller         string
	capacity       string
	ingredientText string
	nutrientText   string
	allergenTags   []int64
	sweetenerTags  []int64
}

var demoProducts = []demoProduct{
	{
		reportNo:       "2019001",
		name:           "순수우유바",
		seller:         "그린상사",
		capacity:       "40g",
		ingredientText: "우유, 설탕, 유크림, 탈지분유",
		nutrientText:   "당류 12g",
		allergenTags:   []int64{2},
	},
	{
		reportNo:       "2019002",
		name:           "통밀콩과자",
		seller:         "그린상사",
		capacity:       "60g",
		ingredientText: "밀가루, 대두, 올리고당, 정제수",
		nutrientText:   "당류 4g",
		allergenTags:   []int64{6, 5},
		sweetenerTags:  []int64{15},
	},
	{
		reportNo:       "2019003",
		name:           "제로 스파클링",
		seller:         "청량음료",
		capacity:       "350ml",
		ingredientText: "정제수, 탄산가스, 아스파탐",
		nutrientText:   "당류 0g",
		sweetenerTags:  []int64{10},
	},
	{
		reportNo:       "2019004",
		name:           "달콤 젤리",
		seller:         "캔디하우스",
		capacity:       "80g",
		ingredientText: "액상과당, 젤라틴, 복숭아농축액",
		nutrientText:   "당류 22g",
		allergenTags:   []int64{11},
		sweetenerTags:  []int64{11},
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo catalog products and a demo user",
	Long:  "Seeds a handful of catalog products plus one demo user (milk/soy allergies, diabetic) for local development. Existing rows are left untouched.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		batch := &pgx.Batch{}
		for _, p := range demoProducts {
			batch.Queue(
				`INSERT INTO products (report_no, name, seller, capacity, ingredient_text, nutrient_text)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (report_no) DO NOTHING`,
				p.reportNo, p.name, p.seller, p.capacity, p.ingredientText, p.nutrientText,
			)
			for pos, id := range p.allergenTags {
				batch.Queue(
					`INSERT INTO product_allergens (report_no, allergen_id, position)
					 VALUES ($1, $2, $3)
					 ON CONFLICT DO NOTHING`,
					p.reportNo, id, pos,
				)
			}
			for pos, id := range p.sweetenerTags {
				batch.Queue(
					`INSERT INTO product_sweeteners (report_no, sweetener_id, position)
					 VALUES ($1, $2, $3)
					 ON CONFLICT DO NOTHING`,
					p.reportNo, id, pos,
				)
			}
		}

		br := pool.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}

		// Demo user: milk and soy allergies, diabetic.
		var userID int64
		err = pool.QueryRow(ctx,
			`INSERT INTO users (email, nickname) VALUES ($1, $2)
			 ON CONFLICT (email) DO UPDATE SET nickname = EXCLUDED.nickname
			 RETURNING id`,
			"demo@foodsafe.local", "데모",
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("seed demo user: %w", err)
		}

		profileBatch := &pgx.Batch{}
		for pos, id := range []int64{2, 5} {
			profileBatch.Queue(
				`INSERT INTO user_allergens (user_id, allergen_id, position)
				 VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				userID, id, pos,
			)
		}
		profileBatch.Queue(
			`INSERT INTO user_diseases (user_id, disease_id, position)
			 VALUES ($1, 1, 0) ON CONFLICT DO NOTHING`,
			userID,
		)
		br = pool.SendBatch(ctx, profileBatch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("seed demo profile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products, demo user id %d\n", len(demoProducts), userID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
