package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
)

const backupUploadConcurrency = 4

// BackupService exports ledger snapshots to a Spaces (S3-compatible)
// bucket. Admin-triggered only; never on a schedule.
type BackupService struct {
	client *s3.Client
	bucket string
	root   string
	users  repositories.UserRepository
	stats  repositories.StatsRepository
}

func NewBackupService(spacesKey, spacesSecret, region, bucket, root string, users repositories.UserRepository, stats repositories.StatsRepository) *BackupService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &BackupService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		root:   strings.TrimPrefix(root, "/"),
		users:  users,
		stats:  stats,
	}
}

// ExportLedger serializes every ledger row (plus its game stats) and
// uploads them under a timestamped prefix. Uploads run on a bounded
// errgroup; the user list is snapshotted at call start.
func (s *BackupService) ExportLedger(ctx context.Context) (int, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to snapshot users: %w", err)
	}

	prefix := fmt.Sprintf("%s/ledger/%s", s.root, time.Now().UTC().Format("20060102-150405"))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backupUploadConcurrency)

	for _, user := range users {
		user := user
		g.Go(func() error {
			stats, err := s.stats.GetByUser(gctx, user.DiscordID)
			if err != nil {
				return fmt.Errorf("failed to load stats for %s: %w", user.DiscordID, err)
			}

			doc := map[string]any{
				"ledger":     user,
				"game_stats": stats,
			}
			body, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to marshal snapshot for %s: %w", user.DiscordID, err)
			}

			key := fmt.Sprintf("%s/%s.json", prefix, user.DiscordID)
			_, err = s.client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:      &s.bucket,
				Key:         &key,
				Body:        bytes.NewReader(body),
				ContentType: aws.String("application/json"),
			})
			if err != nil {
				return fmt.Errorf("failed to upload snapshot for %s: %w", user.DiscordID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	slog.Info("Ledger backup exported",
		slog.String("type", "engine"),
		slog.String("prefix", prefix),
		slog.Int("users", len(users)))
	return len(users), nil
}
