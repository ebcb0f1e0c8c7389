package core

import (
	"context"

	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

type CourseService struct {
	store *store.FileStore
	gen   Generator
	log   *logger.Logger
}

func NewCourseService(st *store.FileStore, gen Generator, log *logger.Logger) *CourseService {
	return &CourseService{store: st, gen: gen, log: log.With("service", "CourseService")}
}

// Create generates a crash course and, when a user id is supplied, persists
// it as that user's most recent course. The store write happens only after
// a successful, schema-valid generation.
func (s *CourseService) Create(ctx context.Context, topic, userID string) (*store.CrashCourse, error) {
	course, err := s.gen.GenerateCrashCourse(ctx, topic)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		if err := s.store.AddCrashCourse(userID, *course); err != nil {
			return nil, err
		}
		s.log.Info("crash course stored", "user_id", userID, "course_id", course.ID)
	}
	return course, nil
}

func (s *CourseService) List(userID string, start, limit int) (Batch[store.CrashCourse], error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return Batch[store.CrashCourse]{}, err
	}
	if user == nil {
		return Batch[store.CrashCourse]{}, store.ErrUserNotFound
	}
	return ListBatch(user.CrashCourses, start, limit), nil
}

func (s *CourseService) Delete(userID, courseID string) error {
	return s.store.RemoveCrashCourse(userID, courseID)
}
