package models

import "time"

// Role enumerates user roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// NoteType enumerates note categories.
type NoteType string

const (
	NoteBug         NoteType = "bug"
	NoteFeature     NoteType = "feature"
	NoteImprovement NoteType = "improvement"
	NotePlain       NoteType = "note"
)

// NotePriority enumerates note priorities.
type NotePriority string

const (
	PriorityLow      NotePriority = "low"
	PriorityMedium   NotePriority = "medium"
	PriorityHigh     NotePriority = "high"
	PriorityCritical NotePriority = "critical"
)

// LikeTarget enumerates the entity kinds a like or comment can point at.
type LikeTarget string

const (
	TargetWikiEntry LikeTarget = "wikiEntry"
	TargetProject   LikeTarget = "project"
	TargetComment   LikeTarget = "comment"
	TargetNote      LikeTarget = "note"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialised into session slots or returned across the auth boundary.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

// Sanitized returns a copy of the user with the password hash removed.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// ProjectDependencies holds the two ordered dependency lists a project tracks.
type ProjectDependencies struct {
	NPM  []string `json:"npm"`
	Java []string `json:"java"`
}

// Project is a tracked software project.
type Project struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Language     string              `json:"language"`
	Framework    string              `json:"framework"`
	Dependencies ProjectDependencies `json:"dependencies"`
	Repository   string              `json:"repository,omitempty"`
	Status       ProjectStatus       `json:"status"`
	AuthorID     string              `json:"authorId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	IsPublic     bool                `json:"isPublic"`
	Likes        int                 `json:"likes"`
	Views        int                 `json:"views"`
}

// WikiEntry is a knowledge-base article.
type WikiEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	AuthorID  string    `json:"authorId"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsPublic  bool      `json:"isPublic"`
	Likes     int       `json:"likes"`
	Views     int       `json:"views"`
}

// Note is a project-scoped annotation (bug report, feature idea, etc).
type Note struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	ProjectID string       `json:"projectId"`
	AuthorID  string       `json:"authorId"`
	Type      NoteType     `json:"type"`
	Priority  NotePriority `json:"priority"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Comment is attached to exactly one target entity. The target is a tagged
// union rather than three optional foreign keys, which closes off the
// none-set and multiple-set states the looser shape permits.
type Comment struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	AuthorID   string     `json:"authorId"`
	TargetType LikeTarget `json:"targetType"`
	TargetID   string     `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Likes      int        `json:"likes"`
}

// SqlScript is a versioned SQL artefact belonging to a project.
type SqlScript struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ProjectID   string    `json:"projectId"`
	AuthorID    string    `json:"authorId"`
	Database    string    `json:"database"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Like records that a user liked a target. At most one row exists per
// (userId, targetType, targetId) triple at any time.
type Like struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	TargetType LikeTarget `json:"targetType"`
	TargetID   string     `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Snapshot is the complete in-memory representation of every collection.
// It round-trips as one JSON blob under a single storage key.
type Snapshot struct {
	Users       []User      `json:"users"`
	Projects    []Project   `json:"projects"`
	WikiEntries []WikiEntry `json:"wikiEntries"`
	Notes       []Note      `json:"notes"`
	Comments    []Comment   `json:"comments"`
	SqlScripts  []SqlScript `json:"sqlScripts"`
	Likes       []Like      `json:"likes"`
}

// Clone returns a deep copy so callers outside the store's critical section
// never alias the owned snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cpy := &Snapshot{
		Users:       append([]User(nil), s.Users...),
		Projects:    make([]Project, len(s.Projects)),
		WikiEntries: make([]WikiEntry, len(s.WikiEntries)),
		Notes:       append([]Note(nil), s.Notes...),
		Comments:    append([]Comment(nil), s.Comments...),
		SqlScripts:  append([]SqlScript(nil), s.SqlScripts...),
		Likes:       append([]Like(nil), s.Likes...),
	}

	for i, p := range s.Projects {
		p.Dependencies.NPM = append([]string(nil), p.Dependencies.NPM...)
		p.Dependencies.Java = append([]string(nil), p.Dependencies.Java...)
		cpy.Projects[i] = p
	}
	for i, e := range s.WikiEntries {
		e.Tags = append([]string(nil), e.Tags...)
		cpy.WikiEntries[i] = e
	}

	return cpy
}
