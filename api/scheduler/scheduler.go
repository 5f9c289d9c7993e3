package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/databases"
	"github.com/ecotrackhq/ecotrack-api/models"
	templates "github.com/ecotrackhq/ecotrack-api/templates/html"
)

// Scheduler handles the periodic background jobs: comment counter
// reconciliation and emission alert emails
type Scheduler struct {
	cron      *cron.Cron
	VehicleDB databases.VehicleDatabase
	PostDB    databases.PostDatabase
	CommentDB databases.CommentDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(vehicleDB databases.VehicleDatabase, postDB databases.PostDatabase, commentDB databases.CommentDatabase) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		VehicleDB: vehicleDB,
		PostDB:    postDB,
		CommentDB: commentDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Reconcile denormalized comment counters daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.reconcileCommentCounts)
	if err != nil {
		zap.S().Errorw("failed to register reconciliation job", "error", err)
	}

	// Alert owners of exceeding vehicles hourly
	_, err = s.cron.AddFunc("0 * * * *", s.alertExceedingVehicles)
	if err != nil {
		zap.S().Errorw("failed to register vehicle alert job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("background scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("background scheduler stopped")
}

// reconcileCommentCounts recounts the comments of every post and repairs
// counters that have drifted from the truth. Comments whose post no longer
// exists are ignored.
func (s *Scheduler) reconcileCommentCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	zap.S().Info("running comment counter reconciliation")

	posts, err := s.PostDB.Find(ctx, bson.D{})
	if err != nil {
		zap.S().Errorw("failed to list posts for reconciliation", "error", err)
		return
	}

	repaired := 0
	for _, post := range posts {
		actual, err := s.CommentDB.CountDocuments(ctx, bson.M{"post": post.ID})
		if err != nil {
			zap.S().Errorw("failed to count comments", "post", post.ID.Hex(), "error", err)
			continue
		}
		if int64(post.CommentsCount) == actual {
			continue
		}
		zap.S().Warnw("comment counter drift detected",
			"post", post.ID.Hex(),
			"stored", post.CommentsCount,
			"actual", actual)
		_, err = s.PostDB.UpdateOne(ctx, bson.M{"_id": post.ID},
			bson.M{"$set": bson.M{"commentsCount": actual}})
		if err != nil {
			zap.S().Errorw("failed to repair comment counter", "post", post.ID.Hex(), "error", err)
			continue
		}
		repaired++
	}

	zap.S().Infow("comment counter reconciliation complete",
		"postsChecked", len(posts),
		"countersRepaired", repaired)
}

// alertExceedingVehicles emails the owner of every vehicle that crossed the
// emission limit and has not been notified yet. The notification flag resets
// when the vehicle's emission is updated back under the limit.
func (s *Scheduler) alertExceedingVehicles() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	vehicles, err := s.VehicleDB.Find(ctx, bson.M{
		"carbonFootprint.carbonEmitted": bson.M{"$gt": models.ExceedingThreshold},
		"notificationSent":              false,
	})
	if err != nil {
		zap.S().Errorw("failed to list exceeding vehicles", "error", err)
		return
	}
	if len(vehicles) == 0 {
		return
	}

	zap.S().Infow("sending emission alerts", "vehicles", len(vehicles))

	for _, vehicle := range vehicles {
		if vehicle.OwnerEmail == "" {
			zap.S().Debugf("vehicle %s has no owner email, skipping alert", vehicle.Number)
			continue
		}

		htmlContent, plainText := templates.RenderVehicleAlertEmail(
			vehicle.OwnerName, vehicle.Name, vehicle.Number,
			vehicle.CarbonFootprint.CarbonEmitted, models.ExceedingThreshold)

		if err := s.sendEmail(vehicle.OwnerEmail, vehicle.OwnerName, "Carbon Emission Alert", htmlContent, plainText); err != nil {
			zap.S().Errorw("failed to send emission alert", "vehicle", vehicle.Number, "error", err)
			continue
		}

		_, err = s.VehicleDB.UpdateOne(ctx, bson.M{"_id": vehicle.ID},
			bson.M{"$set": bson.M{"notificationSent": true}})
		if err != nil {
			zap.S().Errorw("failed to mark vehicle as notified", "vehicle", vehicle.Number, "error", err)
		}
	}
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("EcoTrack", "no-reply@ecotrackhq.com")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
