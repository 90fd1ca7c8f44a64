package course

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

const (
	MinGrade = 0
	MaxGrade = 100

	topStudentsLimit = 5
)

// StudentID identifies a student. Valid ids are positive.
type StudentID int64

// SubmissionKey is the (student, assignment) pair a grade is recorded under.
type SubmissionKey struct {
	StudentID    StudentID
	AssignmentID uuid.UUID
}

type Submission struct {
	StudentID    StudentID
	AssignmentID uuid.UUID
	Grade        int
}

// Course is the aggregate owning enrollment, assignment and submission state.
// It is loaded, mutated and saved within a single call and never shared.
type Course struct {
	id          uuid.UUID
	name        string
	students    map[StudentID]struct{}
	assignments map[uuid.UUID]string
	submissions map[SubmissionKey]int
}

var newAssignmentID = uuid.New

func New(id uuid.UUID, name string) (*Course, error) {
	return Restore(id, name, nil, nil, nil)
}

// Restore rebuilds a course from previously persisted state. The given
// collections are copied.
func Restore(id uuid.UUID, name string, students []StudentID, assignments map[uuid.UUID]string, submissions []Submission) (*Course, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: course name must be present", ErrValidation)
	}
	c := &Course{
		id:          id,
		name:        name,
		students:    make(map[StudentID]struct{}, len(students)),
		assignments: make(map[uuid.UUID]string, len(assignments)),
		submissions: make(map[SubmissionKey]int, len(submissions)),
	}
	for _, s := range students {
		c.students[s] = struct{}{}
	}
	for k, v := range assignments {
		c.assignments[k] = v
	}
	for _, s := range submissions {
		c.submissions[SubmissionKey{StudentID: s.StudentID, AssignmentID: s.AssignmentID}] = s.Grade
	}
	return c, nil
}

func (c *Course) ID() uuid.UUID { return c.id }

func (c *Course) Name() string { return c.name }

func (c *Course) CreateAssignment(name string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: assignment name must be present", ErrValidation)
	}
	id := newAssignmentID()
	c.assignments[id] = name
	return id, nil
}

// EnrollStudent adds the student and reports whether membership changed.
// A non-positive id is treated as absent and rejected.
func (c *Course) EnrollStudent(studentID StudentID) (bool, error) {
	if studentID <= 0 {
		return false, fmt.Errorf("%w: student id must be present", ErrValidation)
	}
	if _, ok := c.students[studentID]; ok {
		return false, nil
	}
	c.students[studentID] = struct{}{}
	return true, nil
}

// DropoutStudent removes the student. Submissions already recorded for the
// student are kept.
func (c *Course) DropoutStudent(studentID StudentID) bool {
	if _, ok := c.students[studentID]; !ok {
		return false
	}
	delete(c.students, studentID)
	return true
}

func (c *Course) SubmitAssignment(studentID StudentID, assignmentID uuid.UUID, grade int) bool {
	if !c.IsEnrolled(studentID) {
		return false
	}
	if _, ok := c.assignments[assignmentID]; !ok {
		return false
	}
	key := SubmissionKey{StudentID: studentID, AssignmentID: assignmentID}
	if _, ok := c.submissions[key]; ok {
		return false
	}
	if grade < MinGrade || grade > MaxGrade {
		return false
	}
	c.submissions[key] = grade
	return true
}

// AssignmentGradeAverage returns the floor of the mean grade recorded for the
// assignment across all students.
func (c *Course) AssignmentGradeAverage(assignmentID uuid.UUID) (int, error) {
	if _, ok := c.assignments[assignmentID]; !ok {
		return 0, fmt.Errorf("%w: assignment %s does not exist in course %s", ErrNotFound, assignmentID, c.id)
	}
	sum, n := 0, 0
	for key, grade := range c.submissions {
		if key.AssignmentID == assignmentID {
			sum += grade
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: assignment %s has no submissions in course %s", ErrNoSubmissions, assignmentID, c.id)
	}
	return sum / n, nil
}

// StudentGradeAverage returns the floor of the mean grade of the student
// across all assignments.
func (c *Course) StudentGradeAverage(studentID StudentID) (int, error) {
	if !c.IsEnrolled(studentID) {
		return 0, fmt.Errorf("%w: student %d does not exist in course %s", ErrNotFound, studentID, c.id)
	}
	sum, n := 0, 0
	for key, grade := range c.submissions {
		if key.StudentID == studentID {
			sum += grade
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: student %d has not submitted assignments in course %s", ErrNoSubmissions, studentID, c.id)
	}
	return sum / n, nil
}

// TopFiveStudents ranks enrolled students by average grade, highest first.
// Students without submissions are skipped. Equal averages are ordered by
// ascending student id.
func (c *Course) TopFiveStudents() []StudentID {
	type ranked struct {
		id  StudentID
		avg int
	}
	ranking := make([]ranked, 0, len(c.students))
	for id := range c.students {
		avg, err := c.StudentGradeAverage(id)
		if err != nil {
			continue
		}
		ranking = append(ranking, ranked{id: id, avg: avg})
	}
	slices.SortFunc(ranking, func(a, b ranked) int {
		if a.avg != b.avg {
			return cmp.Compare(b.avg, a.avg)
		}
		return cmp.Compare(a.id, b.id)
	})
	if len(ranking) > topStudentsLimit {
		ranking = ranking[:topStudentsLimit]
	}
	out := make([]StudentID, 0, len(ranking))
	for _, r := range ranking {
		out = append(out, r.id)
	}
	return out
}

func (c *Course) IsEnrolled(studentID StudentID) bool {
	_, ok := c.students[studentID]
	return ok
}

// Students returns the enrolled ids in ascending order.
func (c *Course) Students() []StudentID {
	out := make([]StudentID, 0, len(c.students))
	for id := range c.students {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (c *Course) Assignment(id uuid.UUID) (string, bool) {
	name, ok := c.assignments[id]
	return name, ok
}

// Assignments returns a copy of the assignment names keyed by id.
func (c *Course) Assignments() map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(c.assignments))
	for k, v := range c.assignments {
		out[k] = v
	}
	return out
}

func (c *Course) Grade(studentID StudentID, assignmentID uuid.UUID) (int, bool) {
	grade, ok := c.submissions[SubmissionKey{StudentID: studentID, AssignmentID: assignmentID}]
	return grade, ok
}

// Submissions returns every recorded grade ordered by student, then assignment.
func (c *Course) Submissions() []Submission {
	out := make([]Submission, 0, len(c.submissions))
	for key, grade := range c.submissions {
		out = append(out, Submission{StudentID: key.StudentID, AssignmentID: key.AssignmentID, Grade: grade})
	}
	slices.SortFunc(out, func(a, b Submission) int {
		if a.StudentID != b.StudentID {
			return cmp.Compare(a.StudentID, b.StudentID)
		}
		return cmp.Compare(a.AssignmentID.String(), b.AssignmentID.String())
	})
	return out
}
