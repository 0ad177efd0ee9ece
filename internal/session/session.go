package session

import (
	"errors"
	"sync"
	"time"
)

// State is the lifecycle phase the active user is in. Teacher sessions
// move through the left column, student sessions through the right:
//
//	admin_login → teacher_dashboard        student_entry → student_exam
//	teacher_dashboard ⇄ exam_setup         student_exam ⇄ student_submitting
//	teacher_dashboard ⇄ view_submissions   student_submitting → student_result
type State string

const (
	StateAdminLogin        State = "admin_login"
	StateTeacherDashboard  State = "teacher_dashboard"
	StateExamSetup         State = "exam_setup"
	StateViewSubmissions   State = "view_submissions"
	StateStudentEntry      State = "student_entry"
	StateStudentExam       State = "student_exam"
	StateStudentSubmitting State = "student_submitting"
	StateStudentResult     State = "student_result"
)

// ForceTarget is the navigation signal injected from outside the app
// (the original routes on URL fragments). It forces entry into one flow
// or the other, honouring prior authentication.
type ForceTarget string

const (
	ForceStudent ForceTarget = "student"
	ForceTeacher ForceTarget = "teacher"
)

var (
	ErrIllegalTransition = errors.New("illegal session state transition")
	ErrBadPasscode       = errors.New("passcode does not match")
)

// Credential is the explicit session credential installed by a
// successful login. There is no ambient storage; logging out removes it.
type Credential struct {
	GrantedAt time.Time
}

// Session is one user's state machine instance. Methods are safe for
// concurrent use.
type Session struct {
	mu        sync.Mutex
	state     State
	cred      *Credential
	examID    string
	enteredAt time.Time
	now       func() time.Time
}

// NewTeacher starts a session at the passcode gate.
func NewTeacher() *Session {
	return &Session{state: StateAdminLogin, now: time.Now}
}

// NewStudent starts a session at the exam-code entry screen.
func NewStudent() *Session {
	return &Session{state: StateStudentEntry, now: time.Now}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred != nil
}

// ExamID is the exam a student session entered, if any.
func (s *Session) ExamID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.examID
}

// Login moves admin_login → teacher_dashboard when the passcode
// matches. A wrong passcode leaves the state unchanged.
func (s *Session) Login(passcode, want string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAdminLogin {
		return ErrIllegalTransition
	}
	if passcode != want {
		return ErrBadPasscode
	}
	s.cred = &Credential{GrantedAt: s.now()}
	s.state = StateTeacherDashboard
	return nil
}

// Logout removes the credential and returns to the passcode gate.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	s.state = StateAdminLogin
}

// BeginSetup moves teacher_dashboard → exam_setup after extraction has
// produced a draft exam.
func (s *Session) BeginSetup() error {
	return s.transition(StateTeacherDashboard, StateExamSetup)
}

// Published moves exam_setup → teacher_dashboard after a successful
// publish.
func (s *Session) Published() error {
	return s.transition(StateExamSetup, StateTeacherDashboard)
}

// ViewSubmissions moves teacher_dashboard → view_submissions for the
// selected exam.
func (s *Session) ViewSubmissions() error {
	return s.transition(StateTeacherDashboard, StateViewSubmissions)
}

// BackToDashboard leaves the submissions view.
func (s *Session) BackToDashboard() error {
	return s.transition(StateViewSubmissions, StateTeacherDashboard)
}

// EnterExam moves student_entry → student_exam once the entered code
// resolved to an existing, open exam, and starts the advisory timer.
func (s *Session) EnterExam(examID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStudentEntry {
		return ErrIllegalTransition
	}
	s.examID = examID
	s.enteredAt = s.now()
	s.state = StateStudentExam
	return nil
}

// BeginSubmit claims the session's one submission slot, moving
// student_exam → student_submitting. The claim is atomic: of two
// concurrent submits on the same token exactly one gets it, the other
// sees ErrIllegalTransition. An attempt produces at most one stored
// submission.
func (s *Session) BeginSubmit() error {
	return s.transition(StateStudentExam, StateStudentSubmitting)
}

// AbortSubmit releases the claim after a failed persist so the student
// can submit again.
func (s *Session) AbortSubmit() error {
	return s.transition(StateStudentSubmitting, StateStudentExam)
}

// CompleteExam moves student_submitting → student_result. Call it only
// after the submission insert succeeded.
func (s *Session) CompleteExam() error {
	return s.transition(StateStudentSubmitting, StateStudentResult)
}

// TimeSpent is the advisory elapsed seconds since entering the exam.
// It feeds time_spent and has no bearing on scoring or eligibility;
// there is no enforced duration limit.
func (s *Session) TimeSpent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enteredAt.IsZero() {
		return 0
	}
	return int(s.now().Sub(s.enteredAt).Seconds())
}

// ForceState applies the external navigation signal. Forcing into the
// teacher flow lands on the dashboard only with a live credential;
// otherwise it lands on the passcode gate.
func (s *Session) ForceState(target ForceTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch target {
	case ForceStudent:
		s.state = StateStudentEntry
		s.examID = ""
		s.enteredAt = time.Time{}
	case ForceTeacher:
		if s.cred != nil {
			s.state = StateTeacherDashboard
		} else {
			s.state = StateAdminLogin
		}
	}
}

func (s *Session) transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return ErrIllegalTransition
	}
	s.state = to
	return nil
}
