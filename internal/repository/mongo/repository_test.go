package mongo

import (
	"context"
	"errors"
	"testing"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testDatabase = "gymnexus"

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// toDoc encodes v the way the driver stores it, for use in mock cursor batches.
func toDoc(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func storedWorkout(coachID primitive.ObjectID, assignees ...primitive.ObjectID) domain.Workout {
	w := domain.Workout{
		ID:         primitive.NewObjectID(),
		Name:       "Push Pull",
		CoachID:    coachID,
		AssignedTo: assignees,
		Status:     domain.WorkoutStatusActive,
	}
	day := w.AppendDay(domain.Day{ID: "d1", Day: "Monday", Focus: "Push"})
	_, _ = w.AppendExercise(day.ID, domain.Exercise{ID: "e1", Name: "Bench", Sets: "3", Reps: "10"})
	return w
}

func ns(collection string) string {
	return testDatabase + "." + collection
}

func TestMongoWorkoutRepository_GetByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		want := storedWorkout(primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch, toDoc(mt.T, want)))

		got, err := repo.GetByID(context.Background(), want.ID)
		require.NoError(mt, err)
		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, []string{"d1"}, got.DayOrder)
		assert.Equal(mt, "d1", got.Exercises["e1"].DayID)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestMongoWorkoutRepository_Update(t *testing.T) {
	mt := newMockT(t)

	mt.Run("replaces the document", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		stored := storedWorkout(primitive.NewObjectID())
		athleteID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch, toDoc(mt.T, stored)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		got, err := repo.Update(context.Background(), stored.ID, func(w *domain.Workout) error {
			return w.Assign(athleteID)
		})
		require.NoError(mt, err)
		assert.Equal(mt, []primitive.ObjectID{athleteID}, got.AssignedTo)
		assert.False(mt, got.UpdatedAt.IsZero())

		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
		update := mt.GetStartedEvent()
		require.Equal(mt, "update", update.CommandName)
		stmt := update.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, stored.ID, stmt.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, athleteID, stmt.Lookup("u", "assignedTo").Array().Index(0).Value().ObjectID())
	})

	mt.Run("deleted between read and write", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		stored := storedWorkout(primitive.NewObjectID())
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch, toDoc(mt.T, stored)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, err := repo.Update(context.Background(), stored.ID, func(*domain.Workout) error { return nil })
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("mutator error skips the write", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		stored := storedWorkout(primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch, toDoc(mt.T, stored)))

		boom := errors.New("boom")
		_, err := repo.Update(context.Background(), stored.ID, func(*domain.Workout) error { return boom })
		assert.ErrorIs(mt, err, boom)

		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoWorkoutRepository_GetByAssignee(t *testing.T) {
	mt := newMockT(t)

	mt.Run("matches array members", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		athleteID := primitive.NewObjectID()
		first := storedWorkout(primitive.NewObjectID(), athleteID)
		second := storedWorkout(primitive.NewObjectID(), primitive.NewObjectID(), athleteID)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch, toDoc(mt.T, first), toDoc(mt.T, second)))

		got, err := repo.GetByAssignee(context.Background(), athleteID)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, first.ID, got[0].ID)
		assert.Equal(mt, second.ID, got[1].ID)

		find := mt.GetStartedEvent()
		require.Equal(mt, "find", find.CommandName)
		// plain equality on the array field, served by the multikey index
		assert.Equal(mt, athleteID, find.Command.Lookup("filter", "assignedTo").ObjectID())
		assert.Equal(mt, int64(1), find.Command.Lookup("sort", "createdAt").AsInt64())
	})

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(workoutCollectionName), mtest.FirstBatch))

		got, err := repo.GetByCoachID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})
}

func TestMongoWorkoutRepository_Delete(t *testing.T) {
	mt := newMockT(t)

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID()), repository.ErrNotFound)
	})
}

func TestMongoUserRepository_DuplicateEmail(t *testing.T) {
	mt := newMockT(t)
	duplicate := mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(duplicate)

		_, err := repo.Create(context.Background(), &domain.User{Email: "coach@gym.test", PasswordHash: "x", Role: domain.RoleCoach})
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Client.Database(testDatabase))
		stored := domain.User{ID: primitive.NewObjectID(), Email: "other@gym.test", PasswordHash: "x", Role: domain.RoleCoach}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(userCollectionName), mtest.FirstBatch, toDoc(mt.T, stored)),
			duplicate,
		)

		_, err := repo.Update(context.Background(), stored.ID, func(u *domain.User) error {
			u.Email = "coach@gym.test"
			return nil
		})
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})
}

func TestMongoUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("fills defaults", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Client.Database(testDatabase))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Email: "coach@gym.test", PasswordHash: "x", Role: domain.RoleCoach}
		id, err := repo.Create(context.Background(), user)
		require.NoError(mt, err)
		assert.Equal(mt, user.ID, id)
		assert.NotNil(mt, user.Metrics)

		insert := mt.GetStartedEvent()
		require.Equal(mt, "insert", insert.CommandName)
		doc := insert.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, "coach@gym.test", doc.Lookup("email").StringValue())
		_, err = doc.LookupErr("addedBy")
		assert.Error(mt, err, "coaches carry no addedBy")
	})

	mt.Run("rejects incomplete users", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Client.Database(testDatabase))
		_, err := repo.Create(context.Background(), &domain.User{Email: "coach@gym.test"})
		assert.Error(mt, err)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoUserRepository_GetByAddedBy(t *testing.T) {
	mt := newMockT(t)

	mt.Run("newest first", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Client.Database(testDatabase))
		coachID := primitive.NewObjectID()
		athlete := domain.User{ID: primitive.NewObjectID(), Email: "a@gym.test", PasswordHash: "x", Role: domain.RoleAthlete, AddedBy: &coachID}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(userCollectionName), mtest.FirstBatch, toDoc(mt.T, athlete)))

		got, err := repo.GetByAddedBy(context.Background(), coachID)
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		assert.Equal(mt, athlete.ID, got[0].ID)

		find := mt.GetStartedEvent()
		require.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, coachID, find.Command.Lookup("filter", "addedBy").ObjectID())
		assert.Equal(mt, int64(-1), find.Command.Lookup("sort", "createdAt").AsInt64())
	})
}
