// Package progress implements the learner progress state machine: per
// (user, module) records move NotStarted -> InProgress -> Completed as topic
// completions accumulate. The completed-topic set is stored as one row per
// (user, topic), so completions are additive and commutative at the storage
// layer and a stale read-modify-write can never drop a topic.
package progress

import (
	"errors"
	"time"

	"sinfony/models"
	"sinfony/models/training"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrModuleNotFound        = errors.New("module not found")
	ErrInvalidTopicReference = errors.New("topic does not belong to module")
	ErrNotQuizTopic          = errors.New("topic is not a quiz")
	ErrScoreOutOfRange       = errors.New("score out of range")
	ErrAnswerCount           = errors.New("answer count does not match question count")
	ErrNotCompleted          = errors.New("module not completed")
	ErrFeedbackExists        = errors.New("feedback already submitted")
)

// PointsPerCorrectAnswer is the gamification award per correctly answered
// quiz question. Points only ever increase.
const PointsPerCorrectAnswer = 10

// Tracker mutates and derives learner progress against the shared store.
type Tracker struct {
	DB *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{DB: db}
}

// Result reports the outcome of a completion mutation. ModuleCompleted is
// true only when this call performed the transition into COMPLETED, which is
// the canonical trigger for the feedback prompt regardless of whether the
// final topic was a quiz.
type Result struct {
	Progress        training.ModuleProgress `json:"progress"`
	CompletedTopics []uint                  `json:"completed_topics"`
	ModuleCompleted bool                    `json:"module_completed"`
	FeedbackPending bool                    `json:"feedback_pending"`
	PointsAwarded   uint                    `json:"points_awarded"`
}

// Snapshot is the derived read-side view of a learner's progress.
type Snapshot struct {
	Status              string                   `json:"status"` // NOT_STARTED, IN_PROGRESS, COMPLETED
	CompletedTopics     []uint                   `json:"completed_topics"`
	TotalTopics         int                      `json:"total_topics"`
	Percent             float64                  `json:"percent"`
	CertificateEligible bool                     `json:"certificate_eligible"`
	Progress            *training.ModuleProgress `json:"record"`
}

// DeriveStatus computes the module status implied by a completed set. A
// module with no topics is never completable; that guard is an explicit
// design choice, not an accident of iteration.
func DeriveStatus(moduleTopicIDs, completed []uint) string {
	if len(moduleTopicIDs) == 0 {
		return training.ProgressInProgress
	}
	set := make(map[uint]bool, len(completed))
	for _, id := range completed {
		set[id] = true
	}
	for _, id := range moduleTopicIDs {
		if !set[id] {
			return training.ProgressInProgress
		}
	}
	return training.ProgressCompleted
}

// Apply is the pure local projection of CompleteTopic: it returns the
// completed set and derived status that committing topicID would produce.
// Callers use it for optimistic UI updates before the commit lands.
func Apply(moduleTopicIDs, completed []uint, topicID uint) ([]uint, string, error) {
	member := false
	for _, id := range moduleTopicIDs {
		if id == topicID {
			member = true
			break
		}
	}
	if !member {
		return nil, "", ErrInvalidTopicReference
	}
	next := completed
	already := false
	for _, id := range completed {
		if id == topicID {
			already = true
			break
		}
	}
	if !already {
		next = append(append([]uint{}, completed...), topicID)
	}
	return next, DeriveStatus(moduleTopicIDs, next), nil
}

// CompleteTopic marks topicID as completed for the user. It is idempotent:
// re-completing a topic is a no-op apart from the last-accessed stamp, and
// the attempt counter only increments on genuinely new completions.
// Completion is re-evaluated inside the same transaction, so no reader can
// observe a fully completed set with a stale IN_PROGRESS status.
func (t *Tracker) CompleteTopic(userID, moduleID, topicID uint) (*Result, error) {
	topicIDs, err := t.moduleTopicIDs(moduleID)
	if err != nil {
		return nil, err
	}
	if !contains(topicIDs, topicID) {
		return nil, ErrInvalidTopicReference
	}

	res := &Result{}
	err = t.DB.Transaction(func(tx *gorm.DB) error {
		return completeTopicTx(tx, userID, moduleID, topicIDs, topicID, res)
	})
	if err != nil {
		return nil, err
	}

	if res.ModuleCompleted {
		res.FeedbackPending = !t.feedbackExists(userID, moduleID)
	}
	return res, nil
}

// completeTopicTx is the transactional body of CompleteTopic, shared with
// CompleteQuiz so a quiz submission commits as a single unit. The lazy
// ModuleProgress creation tolerates a concurrent first completion: the
// insert is conflict-tolerant and the loser re-reads the winner's row
// instead of aborting the whole transaction.
func completeTopicTx(tx *gorm.DB, userID, moduleID uint, topicIDs []uint, topicID uint, res *Result) error {
	now := time.Now()

	insert := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoNothing: true,
	}).Create(&training.TopicCompletion{UserID: userID, ModuleID: moduleID, TopicID: topicID})
	if insert.Error != nil {
		return insert.Error
	}
	newCompletion := insert.RowsAffected > 0

	created := false
	var record training.ModuleProgress
	err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fresh := training.ModuleProgress{
			UserID:       userID,
			ModuleID:     moduleID,
			Status:       training.ProgressInProgress,
			AttemptCount: 1,
			StartedAt:    &now,
			LastAccessed: now,
		}
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
			DoNothing: true,
		}).Create(&fresh)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected > 0 {
			record = fresh
			created = true
		} else if err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).
			First(&record).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	}

	if !created {
		record.LastAccessed = now
		if newCompletion {
			record.AttemptCount++
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
	}

	completed, err := completedIn(tx, userID, topicIDs)
	if err != nil {
		return err
	}

	if DeriveStatus(topicIDs, completed) == training.ProgressCompleted &&
		record.Status != training.ProgressCompleted {
		record.Status = training.ProgressCompleted
		record.CompletedAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&training.TrainingModule{}).Where("id = ?", moduleID).
			UpdateColumn("total_completions", gorm.Expr("total_completions + 1")).Error; err != nil {
			return err
		}
		res.ModuleCompleted = true
	}

	res.Progress = record
	res.CompletedTopics = completed
	return nil
}

// GradeQuiz scores a submission against the quiz's questions. answers holds
// the selected option index per question, in question order. The score is the
// count of correct answers; there is no passing threshold.
func GradeQuiz(questions []training.Question, answers []int) (int, error) {
	if len(answers) != len(questions) {
		return 0, ErrAnswerCount
	}
	score := 0
	for i, q := range questions {
		if answers[i] == q.CorrectIndex {
			score++
		}
	}
	return score, nil
}

// CompleteQuiz completes the quiz topic exactly like any other topic (a
// submission completes it regardless of score), records the attempt, persists
// the score on the progress record, and awards score * 10 gamification
// points. The attempt row, topic completion, score write and points award
// commit in one transaction: an interrupted submission leaves no partial
// state (no orphaned attempt, no completed module without its score).
func (t *Tracker) CompleteQuiz(userID, moduleID, topicID uint, score int) (*Result, error) {
	var topic training.Topic
	err := t.DB.Where("id = ? AND module_id = ? AND is_deleted = ?", topicID, moduleID, false).First(&topic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTopicReference
		}
		return nil, err
	}
	if topic.Type != training.TopicQuiz || topic.QuizID == nil {
		return nil, ErrNotQuizTopic
	}

	var questionCount int64
	if err := t.DB.Model(&training.Question{}).
		Where("quiz_id = ? AND is_deleted = ?", *topic.QuizID, false).Count(&questionCount).Error; err != nil {
		return nil, err
	}
	if score < 0 || int64(score) > questionCount {
		return nil, ErrScoreOutOfRange
	}

	topicIDs, err := t.moduleTopicIDs(moduleID)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = t.DB.Transaction(func(tx *gorm.DB) error {
		var attemptCount int64
		if err := tx.Model(&training.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, *topic.QuizID, false).
			Count(&attemptCount).Error; err != nil {
			return err
		}

		attempt := training.QuizAttempt{
			UserID:        userID,
			QuizID:        *topic.QuizID,
			TopicID:       topicID,
			Score:         score,
			MaxScore:      int(questionCount),
			AttemptNumber: int(attemptCount) + 1,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if err := completeTopicTx(tx, userID, moduleID, topicIDs, topicID, res); err != nil {
			return err
		}

		if err := tx.Model(&training.ModuleProgress{}).
			Where("user_id = ? AND module_id = ?", userID, moduleID).
			Updates(map[string]interface{}{"score": score, "last_accessed": time.Now()}).Error; err != nil {
			return err
		}

		points := uint(score) * PointsPerCorrectAnswer
		if points > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("points", gorm.Expr("points + ?", points)).Error; err != nil {
				return err
			}
			res.PointsAwarded = points
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Progress.Score = &score
	if res.ModuleCompleted {
		res.FeedbackPending = !t.feedbackExists(userID, moduleID)
	}
	return res, nil
}

// Get derives the read-side snapshot. Certificate eligibility is recomputed
// from the current completed set every time, never read from a stored flag.
func (t *Tracker) Get(userID, moduleID uint) (*Snapshot, error) {
	topicIDs, err := t.moduleTopicIDs(moduleID)
	if err != nil {
		return nil, err
	}

	completed, err := completedIn(t.DB, userID, topicIDs)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		CompletedTopics: completed,
		TotalTopics:     len(topicIDs),
	}
	if len(topicIDs) > 0 {
		snap.Percent = float64(len(completed)) / float64(len(topicIDs)) * 100
	}

	var record training.ModuleProgress
	err = t.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snap.Status = "NOT_STARTED"
		return snap, nil
	case err != nil:
		return nil, err
	}

	snap.Progress = &record
	snap.Status = record.Status
	snap.CertificateEligible = DeriveStatus(topicIDs, completed) == training.ProgressCompleted &&
		record.Status == training.ProgressCompleted
	return snap, nil
}

// All returns every progress record for a user, most recently touched first.
func (t *Tracker) All(userID uint) ([]training.ModuleProgress, error) {
	var records []training.ModuleProgress
	err := t.DB.Where("user_id = ?", userID).Order("last_accessed desc").Find(&records).Error
	return records, err
}

// Reset recreates an empty in-progress record. The completed set is wiped
// whole, never partially.
func (t *Tracker) Reset(userID, moduleID uint) error {
	if _, err := t.moduleTopicIDs(moduleID); err != nil {
		return err
	}
	return t.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ? AND module_id = ?", userID, moduleID).
			Delete(&training.TopicCompletion{}).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Where("user_id = ? AND module_id = ?", userID, moduleID).
			Assign(map[string]interface{}{
				"status":        training.ProgressInProgress,
				"score":         nil,
				"attempt_count": 0,
				"started_at":    now,
				"completed_at":  nil,
				"last_accessed": now,
			}).
			FirstOrCreate(&training.ModuleProgress{UserID: userID, ModuleID: moduleID}).Error
	})
}

// FeedbackAllowed gates feedback submission: the module must be completed and
// feedback must not have been given yet.
func (t *Tracker) FeedbackAllowed(userID, moduleID uint) error {
	var record training.ModuleProgress
	err := t.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
	if err != nil || record.Status != training.ProgressCompleted {
		return ErrNotCompleted
	}
	if t.feedbackExists(userID, moduleID) {
		return ErrFeedbackExists
	}
	return nil
}

func (t *Tracker) moduleTopicIDs(moduleID uint) ([]uint, error) {
	var module training.TrainingModule
	err := t.DB.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	var topics []training.Topic
	if err := t.DB.Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc").Find(&topics).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(topics))
	for i, topic := range topics {
		ids[i] = topic.ID
	}
	return ids, nil
}

func (t *Tracker) feedbackExists(userID, moduleID uint) bool {
	var feedback models.Feedback
	err := t.DB.Where("user_id = ? AND module_id = ? AND is_deleted = ?", userID, moduleID, false).
		First(&feedback).Error
	return err == nil
}

func completedIn(db *gorm.DB, userID uint, topicIDs []uint) ([]uint, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	var rows []training.TopicCompletion
	if err := db.Where("user_id = ? AND topic_id IN ?", userID, topicIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	completed := make([]uint, len(rows))
	for i, row := range rows {
		completed[i] = row.TopicID
	}
	return completed, nil
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
