package progress

import (
	"math/rand"
	"testing"
	"time"

	"sinfony/database"
	"sinfony/models"
	"sinfony/models/training"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func seedModule(t *testing.T, db *gorm.DB, topicCount int) (training.TrainingModule, []training.Topic) {
	t.Helper()
	module := training.TrainingModule{Title: "Segurança do Paciente", IsActive: true}
	require.NoError(t, db.Create(&module).Error)

	topics := make([]training.Topic, topicCount)
	for i := range topics {
		topics[i] = training.Topic{
			ModuleID:   module.ID,
			Title:      "Etapa",
			Type:       training.TopicText,
			OrderIndex: i + 1,
		}
		require.NoError(t, db.Create(&topics[i]).Error)
	}
	return module, topics
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Maria", Email: "maria@hospital.com.br", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedQuizTopic(t *testing.T, db *gorm.DB, moduleID uint, questionCount int) training.Topic {
	t.Helper()
	quiz := training.Quiz{ModuleID: moduleID, Title: "Avaliação"}
	require.NoError(t, db.Create(&quiz).Error)
	for i := 0; i < questionCount; i++ {
		q := training.Question{
			QuizID:       quiz.ID,
			QuestionText: "Pergunta",
			Options:      datatypes.JSONSlice[string]{"A", "B", "C"},
			CorrectIndex: 1,
			OrderIndex:   i + 1,
		}
		require.NoError(t, db.Create(&q).Error)
	}
	topic := training.Topic{ModuleID: moduleID, Title: "Quiz", Type: training.TopicQuiz, QuizID: &quiz.ID, OrderIndex: 99}
	require.NoError(t, db.Create(&topic).Error)
	return topic
}

func TestCompleteTopicProgression(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	_, topics := seedModule(t, db, 3)
	tracker := NewTracker(db)

	// Untouched module reads as not started.
	snap, err := tracker.Get(user.ID, topics[0].ModuleID)
	require.NoError(t, err)
	assert.Equal(t, "NOT_STARTED", snap.Status)
	assert.False(t, snap.CertificateEligible)

	// First completion creates the record in progress.
	res, err := tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressInProgress, res.Progress.Status)
	assert.False(t, res.ModuleCompleted)
	assert.NotNil(t, res.Progress.StartedAt)
	assert.Len(t, res.CompletedTopics, 1)

	res, err = tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[1].ID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressInProgress, res.Progress.Status)

	// Final topic flips the module to completed in the same call.
	res, err = tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[2].ID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressCompleted, res.Progress.Status)
	assert.True(t, res.ModuleCompleted)
	assert.True(t, res.FeedbackPending)
	assert.NotNil(t, res.Progress.CompletedAt)

	snap, err = tracker.Get(user.ID, topics[0].ModuleID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressCompleted, snap.Status)
	assert.True(t, snap.CertificateEligible)
	assert.InDelta(t, 100.0, snap.Percent, 0.001)

	var module training.TrainingModule
	require.NoError(t, db.First(&module, topics[0].ModuleID).Error)
	assert.Equal(t, uint(1), module.TotalCompletions)
}

func TestQuizAsFinalTopicCompletesModule(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	module, topics := seedModule(t, db, 2)
	quizTopic := seedQuizTopic(t, db, module.ID, 2)
	tracker := NewTracker(db)

	for _, topic := range topics {
		res, err := tracker.CompleteTopic(user.ID, module.ID, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, training.ProgressInProgress, res.Progress.Status)
	}

	// The quiz submission is the completing action: it flips the module,
	// awards points and opens the feedback prompt in one call.
	res, err := tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressCompleted, res.Progress.Status)
	assert.True(t, res.ModuleCompleted)
	assert.True(t, res.FeedbackPending)
	assert.Equal(t, uint(20), res.PointsAwarded)

	snap, err := tracker.Get(user.ID, module.ID)
	require.NoError(t, err)
	assert.True(t, snap.CertificateEligible)
}

func TestCompleteTopicIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	_, topics := seedModule(t, db, 2)
	tracker := NewTracker(db)

	first, err := tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[0].ID)
	require.NoError(t, err)

	// Replaying the same completion changes nothing but the access stamp.
	second, err := tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.CompletedTopics, second.CompletedTopics)
	assert.Equal(t, first.Progress.AttemptCount, second.Progress.AttemptCount)
	assert.Equal(t, training.ProgressInProgress, second.Progress.Status)

	var count int64
	db.Model(&training.TopicCompletion{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompleteTopicToleratesExistingRecord(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	_, topics := seedModule(t, db, 2)
	tracker := NewTracker(db)

	// A progress row written by another request must be folded into, never
	// conflicted with: still exactly one row, completions applied additively.
	now := time.Now()
	existing := training.ModuleProgress{
		UserID:       user.ID,
		ModuleID:     topics[0].ModuleID,
		Status:       training.ProgressInProgress,
		StartedAt:    &now,
		LastAccessed: now,
	}
	require.NoError(t, db.Create(&existing).Error)

	res, err := tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[0].ID)
	require.NoError(t, err)
	assert.Len(t, res.CompletedTopics, 1)
	assert.Equal(t, training.ProgressInProgress, res.Progress.Status)

	var count int64
	db.Model(&training.ModuleProgress{}).
		Where("user_id = ? AND module_id = ?", user.ID, topics[0].ModuleID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompleteTopicCommutative(t *testing.T) {
	db := setupTestDB(t)
	userA := seedUser(t, db)
	userB := models.User{Name: "João", Email: "joao@hospital.com.br", Password: "x"}
	require.NoError(t, db.Create(&userB).Error)

	_, topics := seedModule(t, db, 3)
	tracker := NewTracker(db)

	// Same completions in opposite orders end in the same state.
	for _, topic := range topics {
		_, err := tracker.CompleteTopic(userA.ID, topic.ModuleID, topic.ID)
		require.NoError(t, err)
	}
	for i := len(topics) - 1; i >= 0; i-- {
		_, err := tracker.CompleteTopic(userB.ID, topics[i].ModuleID, topics[i].ID)
		require.NoError(t, err)
	}

	snapA, err := tracker.Get(userA.ID, topics[0].ModuleID)
	require.NoError(t, err)
	snapB, err := tracker.Get(userB.ID, topics[0].ModuleID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressCompleted, snapA.Status)
	assert.Equal(t, training.ProgressCompleted, snapB.Status)
	assert.ElementsMatch(t, snapA.CompletedTopics, snapB.CompletedTopics)
}

func TestCompleteTopicRejectsForeignTopic(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	moduleA, _ := seedModule(t, db, 2)
	_, topicsB := seedModule(t, db, 1)
	tracker := NewTracker(db)

	_, err := tracker.CompleteTopic(user.ID, moduleA.ID, topicsB[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTopicReference)

	_, err = tracker.CompleteTopic(user.ID, 9999, topicsB[0].ID)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestDeriveStatus(t *testing.T) {
	// Completion requires every topic; extras and order are irrelevant.
	assert.Equal(t, training.ProgressCompleted, DeriveStatus([]uint{1, 2, 3}, []uint{3, 1, 2}))
	assert.Equal(t, training.ProgressInProgress, DeriveStatus([]uint{1, 2, 3}, []uint{1, 2}))
	assert.Equal(t, training.ProgressInProgress, DeriveStatus([]uint{1, 2, 3}, nil))

	// A module with no topics is never completable.
	assert.Equal(t, training.ProgressInProgress, DeriveStatus(nil, nil))
	assert.Equal(t, training.ProgressInProgress, DeriveStatus([]uint{}, []uint{1}))
}

func TestApplyMonotonic(t *testing.T) {
	topicIDs := []uint{1, 2, 3, 4, 5}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		var completed []uint
		for _, id := range topicIDs {
			if rng.Intn(2) == 0 {
				completed = append(completed, id)
			}
		}

		before := len(completed)
		pick := topicIDs[rng.Intn(len(topicIDs))]
		next, status, err := Apply(topicIDs, completed, pick)
		require.NoError(t, err)

		// The completed set only grows.
		assert.GreaterOrEqual(t, len(next), before)
		for _, id := range completed {
			assert.Contains(t, next, id)
		}

		if len(next) == len(topicIDs) {
			assert.Equal(t, training.ProgressCompleted, status)
		} else {
			assert.Equal(t, training.ProgressInProgress, status)
		}
	}

	_, _, err := Apply(topicIDs, nil, 42)
	assert.ErrorIs(t, err, ErrInvalidTopicReference)
}

func TestGradeQuiz(t *testing.T) {
	questions := []training.Question{
		{CorrectIndex: 1},
		{CorrectIndex: 0},
		{CorrectIndex: 2},
	}

	score, err := GradeQuiz(questions, []int{1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, score)

	score, err = GradeQuiz(questions, []int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	_, err = GradeQuiz(questions, []int{1, 0})
	assert.ErrorIs(t, err, ErrAnswerCount)
}

func TestCompleteQuizAwardsPoints(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	module, _ := seedModule(t, db, 1)
	quizTopic := seedQuizTopic(t, db, module.ID, 3)
	tracker := NewTracker(db)

	res, err := tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(20), res.PointsAwarded)
	require.NotNil(t, res.Progress.Score)
	assert.Equal(t, 2, *res.Progress.Score)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, uint(20), refreshed.Points)

	// Points are additive across attempts; they never decrease.
	_, err = tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 1)
	require.NoError(t, err)
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, uint(30), refreshed.Points)

	var attempts []training.QuizAttempt
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("attempt_number asc").Find(&attempts).Error)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 2, attempts[1].AttemptNumber)
}

func TestCompleteQuizValidation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	module, topics := seedModule(t, db, 1)
	quizTopic := seedQuizTopic(t, db, module.ID, 2)
	tracker := NewTracker(db)

	_, err := tracker.CompleteQuiz(user.ID, module.ID, topics[0].ID, 1)
	assert.ErrorIs(t, err, ErrNotQuizTopic)

	_, err = tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 5)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, -1)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	// A zero score still completes the topic.
	res, err := tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), res.PointsAwarded)
	assert.Contains(t, res.CompletedTopics, quizTopic.ID)
}

func TestCompleteQuizRollsBackAsOneUnit(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	module, _ := seedModule(t, db, 1)
	quizTopic := seedQuizTopic(t, db, module.ID, 2)
	tracker := NewTracker(db)

	// Force a failure partway through the submission: with the progress
	// table gone, the completion step errors after the attempt and topic
	// rows were written inside the transaction. Nothing may survive.
	require.NoError(t, db.Migrator().DropTable(&training.ModuleProgress{}))

	_, err := tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 2)
	require.Error(t, err)

	var attempts, completions int64
	db.Model(&training.QuizAttempt{}).Where("user_id = ?", user.ID).Count(&attempts)
	db.Model(&training.TopicCompletion{}).Where("user_id = ?", user.ID).Count(&completions)
	assert.Equal(t, int64(0), attempts)
	assert.Equal(t, int64(0), completions)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, uint(0), refreshed.Points)
}

func TestCompleteQuizAttemptCountErrorPropagates(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	module, _ := seedModule(t, db, 1)
	quizTopic := seedQuizTopic(t, db, module.ID, 2)
	tracker := NewTracker(db)

	// A failing attempt-count read must surface, not silently number the
	// attempt as the first.
	require.NoError(t, db.Migrator().DropTable(&training.QuizAttempt{}))

	_, err := tracker.CompleteQuiz(user.ID, module.ID, quizTopic.ID, 1)
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	_, topics := seedModule(t, db, 2)
	tracker := NewTracker(db)

	for _, topic := range topics {
		_, err := tracker.CompleteTopic(user.ID, topic.ModuleID, topic.ID)
		require.NoError(t, err)
	}

	require.NoError(t, tracker.Reset(user.ID, topics[0].ModuleID))

	snap, err := tracker.Get(user.ID, topics[0].ModuleID)
	require.NoError(t, err)
	assert.Equal(t, training.ProgressInProgress, snap.Status)
	assert.Empty(t, snap.CompletedTopics)
	assert.False(t, snap.CertificateEligible)
	assert.Nil(t, snap.Progress.Score)
}

func TestFeedbackGate(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	_, topics := seedModule(t, db, 1)
	tracker := NewTracker(db)

	// Not started, then in progress: feedback stays closed until completion.
	assert.ErrorIs(t, tracker.FeedbackAllowed(user.ID, topics[0].ModuleID), ErrNotCompleted)

	_, err := tracker.CompleteTopic(user.ID, topics[0].ModuleID, topics[0].ID)
	require.NoError(t, err)
	require.NoError(t, tracker.FeedbackAllowed(user.ID, topics[0].ModuleID))

	feedback := models.Feedback{UserID: user.ID, ModuleID: topics[0].ModuleID, OrganizationID: 1, NPS: 9, CSAT: 5}
	require.NoError(t, db.Create(&feedback).Error)

	assert.ErrorIs(t, tracker.FeedbackAllowed(user.ID, topics[0].ModuleID), ErrFeedbackExists)
}
