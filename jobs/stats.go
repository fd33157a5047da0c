package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gharbazaar/backend/config"
	"github.com/gharbazaar/backend/models"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// NewsletterStatsKey is where the precomputed stats snapshot lives in redis.
const NewsletterStatsKey = "newsletter:stats"

const statsTTL = 25 * time.Hour

// StartScheduler runs the nightly stats precompute. The returned cron is
// already started; stop it during shutdown.
func StartScheduler(redisClient *redis.Client) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("15 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := ComputeNewsletterStats(ctx)
		if err != nil {
			log.Printf("Nightly newsletter stats job failed: %v", err)
			return
		}
		CacheNewsletterStats(ctx, redisClient, stats)
		log.Printf("Newsletter stats refreshed: %d total, %d active", stats.Total, stats.Active)
	})
	if err != nil {
		log.Printf("Failed to schedule newsletter stats job: %v", err)
	}

	c.Start()
	return c
}

// ComputeNewsletterStats counts subscriptions by status plus signups from
// the last 30 days.
func ComputeNewsletterStats(ctx context.Context) (models.NewsletterStats, error) {
	var stats models.NewsletterStats
	var err error

	if stats.Total, err = config.NewsletterCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	if stats.Active, err = config.NewsletterCollection.CountDocuments(ctx, bson.M{"status": "active"}); err != nil {
		return stats, err
	}
	if stats.Unsubscribed, err = config.NewsletterCollection.CountDocuments(ctx, bson.M{"status": "unsubscribed"}); err != nil {
		return stats, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if stats.Recent, err = config.NewsletterCollection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": thirtyDaysAgo}}); err != nil {
		return stats, err
	}

	return stats, nil
}

func CacheNewsletterStats(ctx context.Context, redisClient *redis.Client, stats models.NewsletterStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		log.Printf("Failed to serialize newsletter stats: %v", err)
		return
	}
	if err := redisClient.Set(ctx, NewsletterStatsKey, payload, statsTTL).Err(); err != nil {
		log.Printf("Failed to cache newsletter stats: %v", err)
	}
}
