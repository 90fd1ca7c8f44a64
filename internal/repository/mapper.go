package repository

import (
	"fmt"

	"coursebook/internal/course"
	"coursebook/internal/storage"
)

func toRecord(c *course.Course) storage.CourseRecord {
	students := c.Students()
	rec := storage.CourseRecord{
		ID:          c.ID(),
		Name:        c.Name(),
		Students:    make([]int64, 0, len(students)),
		Assignments: c.Assignments(),
	}
	for _, s := range students {
		rec.Students = append(rec.Students, int64(s))
	}
	subs := c.Submissions()
	rec.Submissions = make([]storage.SubmissionRecord, 0, len(subs))
	for _, s := range subs {
		rec.Submissions = append(rec.Submissions, storage.SubmissionRecord{
			StudentID:    int64(s.StudentID),
			AssignmentID: s.AssignmentID,
			Grade:        s.Grade,
		})
	}
	return rec
}

func toCourse(rec storage.CourseRecord) (*course.Course, error) {
	students := make([]course.StudentID, 0, len(rec.Students))
	for _, s := range rec.Students {
		students = append(students, course.StudentID(s))
	}
	subs := make([]course.Submission, 0, len(rec.Submissions))
	for _, s := range rec.Submissions {
		subs = append(subs, course.Submission{
			StudentID:    course.StudentID(s.StudentID),
			AssignmentID: s.AssignmentID,
			Grade:        s.Grade,
		})
	}
	c, err := course.Restore(rec.ID, rec.Name, students, rec.Assignments, subs)
	if err != nil {
		return nil, fmt.Errorf("restore course %s: %w", rec.ID, err)
	}
	return c, nil
}
