package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"wellbeing/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// newTestDatabase connects to MONGO_TEST_URI and skips when it is unset.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("error while connecting to database: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	db := client.Database("wellbeing_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoMonitoringLifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	if err := SetupIndexes(db); err != nil {
		t.Fatalf("SetupIndexes: %v", err)
	}

	sessions := NewMonitoringRepo(db)
	snapshots := NewSnapshotRepo(db)
	start := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("CreateAndUpdate", func(t *testing.T) {
		err := sessions.CreateSession(ctx, &model.MonitoringSession{SessionID: "s1", UserID: "u1", StartTime: start})
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		err = sessions.UpdateSummary(ctx, "s1", model.SessionSummary{TotalBlinks: 7, KeyboardActivity: 3, AvgEAR: 0.3})
		if err != nil {
			t.Fatalf("UpdateSummary: %v", err)
		}
		got, err := sessions.GetSession(ctx, "s1")
		if err != nil || got == nil {
			t.Fatalf("GetSession: %v", err)
		}
		if got.TotalBlinks != 7 || got.KeyboardActivity != 3 {
			t.Errorf("unexpected counters: %+v", got)
		}
	})

	t.Run("MarkEndedOnce", func(t *testing.T) {
		first := start.Add(5 * time.Minute)
		if _, err := sessions.MarkEnded(ctx, "s1", first); err != nil {
			t.Fatalf("MarkEnded: %v", err)
		}
		got, err := sessions.MarkEnded(ctx, "s1", first.Add(time.Hour))
		if err != nil {
			t.Fatalf("MarkEnded: %v", err)
		}
		if got.EndTime == nil || !got.EndTime.Equal(first) {
			t.Errorf("end time = %v, want %v", got.EndTime, first)
		}
	})

	t.Run("SnapshotsOrdered", func(t *testing.T) {
		for i := 2; i >= 0; i-- {
			err := snapshots.AppendSnapshot(ctx, &model.SessionData{
				ID:                 uuid.NewString(),
				SessionID:          "s1",
				Timestamp:          start.Add(time.Duration(i) * time.Second),
				BlinkCountSnapshot: i,
			})
			if err != nil {
				t.Fatalf("AppendSnapshot: %v", err)
			}
		}
		points, err := snapshots.ListSnapshots(ctx, "s1")
		if err != nil {
			t.Fatalf("ListSnapshots: %v", err)
		}
		for i, p := range points {
			if p.BlinkCountSnapshot != i {
				t.Errorf("points[%d] blinks = %d, want %d", i, p.BlinkCountSnapshot, i)
			}
		}
	})

	t.Run("MissingSession", func(t *testing.T) {
		got, err := sessions.GetSession(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("GetSession(missing) = %v, %v; want nil, nil", got, err)
		}
	})
}

func TestMongoUsers(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	users := NewUsersRepo(db)

	user := &model.User{
		UserID:   uuid.NewString(),
		Username: "testUser",
		Email:    "testemail@email.com",
		Password: "salt$hash",
	}
	if err := users.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := users.SaveCalibration(ctx, user.UserID, 0.31); err != nil {
		t.Fatalf("SaveCalibration: %v", err)
	}

	got, err := users.FindUserByEmail(ctx, user.Email)
	if err != nil || got == nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if !got.IsCalibrated || got.CalibrationThreshold != 0.31 {
		t.Errorf("calibration not stored: %+v", got)
	}
}
