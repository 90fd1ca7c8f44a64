package models

import (
	"cmp"
	"slices"

	"coursebook/internal/course"
)

type Assignment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Submission struct {
	StudentID    int64  `json:"studentId"`
	AssignmentID string `json:"assignmentId"`
	Grade        int    `json:"grade"`
}

// Course is the wire view of a course shared by the HTTP and websocket APIs.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Students    []int64      `json:"students"`
	Assignments []Assignment `json:"assignments"`
	Submissions []Submission `json:"submissions"`
}

func FromCourse(c *course.Course) Course {
	out := Course{
		ID:          c.ID().String(),
		Name:        c.Name(),
		Students:    StudentIDs(c.Students()),
		Assignments: []Assignment{},
		Submissions: []Submission{},
	}
	for id, name := range c.Assignments() {
		out.Assignments = append(out.Assignments, Assignment{ID: id.String(), Name: name})
	}
	slices.SortFunc(out.Assignments, func(a, b Assignment) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	for _, s := range c.Submissions() {
		out.Submissions = append(out.Submissions, Submission{
			StudentID:    int64(s.StudentID),
			AssignmentID: s.AssignmentID.String(),
			Grade:        s.Grade,
		})
	}
	return out
}

func FromCourses(courses []*course.Course) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}

func StudentIDs(ids []course.StudentID) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
