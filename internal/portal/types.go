package portal

// Credentials carry a student's portal login. They are used for a single
// login round-trip and never stored.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the portal-side session returned by a successful login.
type Session struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	SchoolName  string `json:"schoolName"`
	AccessToken string `json:"accessToken"`
}

// Period identifies one reporting period (grading term).
type Period struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportingPeriod bundles the currently selected period with every
// period the portal exposes.
type ReportingPeriod struct {
	Current   Period   `json:"current"`
	Available []Period `json:"available"`
}

// Staff describes a course's teacher as the portal reports it.
type Staff struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Score is the raw grading state of one assignment. Value is a display
// string such as "Graded", "Not Graded" or "Not Due".
type Score struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AssignmentDate carries the raw due/start date strings.
type AssignmentDate struct {
	Start string `json:"start"`
	Due   string `json:"due"`
}

// Assignment is one raw gradable item. Points is a display string,
// either "<earned> / <possible>" or a bare possible total such as
// "15.0000 Points Possible".
type Assignment struct {
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Date   AssignmentDate `json:"date"`
	Score  Score          `json:"score"`
	Points string         `json:"points"`
	Notes  string         `json:"notes"`
}

// CategoryWeight is the school-assigned weight of a grading bucket.
// Standard is a display string such as "40%".
type CategoryWeight struct {
	Evaluated string `json:"evaluated"`
	Standard  string `json:"standard"`
}

// WeightedCategory is one raw grading bucket. The portal emits a
// pseudo-category with type "TOTAL" summarising the course; consumers
// skip it.
type WeightedCategory struct {
	Type   string         `json:"type"`
	Weight CategoryWeight `json:"weight"`
}

// Mark holds the recorded grades of one course for one reporting
// period. Courses with no marks recorded yet have an empty Marks slice
// on the Course.
type Mark struct {
	Assignments        []Assignment       `json:"assignments"`
	WeightedCategories []WeightedCategory `json:"weightedCategories"`
}

// Course is one raw class section.
type Course struct {
	Title  string `json:"title"`
	Period int    `json:"period"`
	Staff  Staff  `json:"staff"`
	Room   string `json:"room"`
	Marks  []Mark `json:"marks"`
}

// Gradebook is the raw per-student, per-term gradebook payload.
type Gradebook struct {
	ReportingPeriod ReportingPeriod `json:"reportingPeriod"`
	Courses         []Course        `json:"courses"`
}
