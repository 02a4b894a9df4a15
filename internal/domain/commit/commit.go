// Package commit provides domain types for classifying conventional commits.
package commit

import (
	"regexp"
	"strings"
	"time"
)

// Commit is a parsed conventional commit. Its identity is the hash;
// everything else is classification state derived from the message.
type Commit struct {
	hash string

	commitType string
	scope      string
	subject    string
	body       string
	footer     string

	breaking    bool
	breakingMsg string
	graduate    bool
	files       []string
	author      string
	authorEmail string
	date        time.Time

	rawMessage string
}

// Option is a functional option for constructing commits.
type Option func(*Commit)

// WithScope sets the commit scope.
func WithScope(scope string) Option {
	return func(c *Commit) {
		c.scope = scope
	}
}

// WithBody sets the commit body.
func WithBody(body string) Option {
	return func(c *Commit) {
		c.body = body
	}
}

// WithBreaking marks the commit as a breaking change.
func WithBreaking(msg string) Option {
	return func(c *Commit) {
		c.breaking = true
		c.breakingMsg = msg
	}
}

// WithGraduate marks the commit as requesting graduation out of initial
// development. The parser never sets this; it is reserved for
// configuration-driven graduation.
func WithGraduate() Option {
	return func(c *Commit) {
		c.graduate = true
	}
}

// WithFiles records the repo-relative paths changed by the commit.
func WithFiles(files []string) Option {
	return func(c *Commit) {
		c.files = files
	}
}

// WithAuthor sets the commit author.
func WithAuthor(name, email string) Option {
	return func(c *Commit) {
		c.author = name
		c.authorEmail = email
	}
}

// WithDate sets the commit date.
func WithDate(date time.Time) Option {
	return func(c *Commit) {
		c.date = date
	}
}

// New builds a Commit directly from already-classified parts, bypassing
// the parser.
func New(hash, commitType, subject string, opts ...Option) *Commit {
	c := &Commit{
		hash:       hash,
		commitType: commitType,
		subject:    subject,
		date:       time.Now(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var (
	// conventionalCommitRegex captures type, optional (scope), optional
	// bang, and subject from the first message line.
	conventionalCommitRegex = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!)?\s*:\s*(.+)$`)

	// breakingChangeRegex matches a BREAKING CHANGE or BREAKING-CHANGE
	// trailer, case-insensitively.
	breakingChangeRegex = regexp.MustCompile(`(?i)^BREAKING[ -]CHANGE:\s*(.+)$`)
)

// Parse classifies a raw commit message, returning nil when the first
// line does not follow the type(scope): subject grammar. A commit is
// breaking when the subject carries a bang or the message carries a
// BREAKING CHANGE trailer.
func Parse(hash, message string, opts ...Option) *Commit {
	if message == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSpace(message), "\n")
	if len(lines) == 0 {
		return nil
	}

	matches := conventionalCommitRegex.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if matches == nil {
		return nil
	}

	commitType := strings.ToLower(matches[1])
	scope := matches[2]
	breaking := matches[3] == "!"
	subject := strings.TrimSpace(matches[4])

	var body, footer, breakingMsg string
	if len(lines) > 1 {
		var footerBreaking bool
		body, footer, breakingMsg, footerBreaking = splitBodyFooter(lines[1:])
		breaking = breaking || footerBreaking
	}

	c := &Commit{
		hash:        hash,
		commitType:  commitType,
		scope:       scope,
		subject:     subject,
		body:        body,
		footer:      footer,
		breaking:    breaking,
		breakingMsg: breakingMsg,
		rawMessage:  message,
		date:        time.Now(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// splitBodyFooter separates the lines after the subject into body and
// footer. The footer starts at the first recognized trailer line; a
// BREAKING CHANGE trailer additionally flips the breaking flag and
// captures its text.
func splitBodyFooter(rest []string) (body, footer, breakingMsg string, breaking bool) {
	if len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}

	var bodyLines, footerLines []string
	inFooter := false

	for _, line := range rest {
		if m := breakingChangeRegex.FindStringSubmatch(line); m != nil {
			breaking = true
			breakingMsg = m[1]
			inFooter = true
			footerLines = append(footerLines, line)
			continue
		}

		if key, _, found := strings.Cut(line, ":"); found && !strings.HasPrefix(line, " ") && isFooterToken(key) {
			inFooter = true
			footerLines = append(footerLines, line)
			continue
		}

		if inFooter {
			footerLines = append(footerLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	footer = strings.TrimSpace(strings.Join(footerLines, "\n"))
	return body, footer, breakingMsg, breaking
}

// isFooterToken reports whether s is a known git trailer key.
func isFooterToken(s string) bool {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "breaking change", "breaking-change", "closes", "fixes", "resolves",
		"refs", "see", "co-authored-by", "signed-off-by", "reviewed-by",
		"acked-by", "tested-by":
		return true
	}
	return false
}

// Hash returns the full commit id.
func (c *Commit) Hash() string {
	return c.hash
}

// ShortHash returns the first seven characters of the hash.
func (c *Commit) ShortHash() string {
	if len(c.hash) > 7 {
		return c.hash[:7]
	}
	return c.hash
}

// Type returns the commit type token, e.g. "feat".
func (c *Commit) Type() string {
	return c.commitType
}

// Scope returns the parenthesized scope token, empty when absent.
func (c *Commit) Scope() string {
	return c.scope
}

// Subject returns the first-line description.
func (c *Commit) Subject() string {
	return c.subject
}

// Body returns the free-form text between subject and footer.
func (c *Commit) Body() string {
	return c.body
}

// Footer returns the trailer block, empty when absent.
func (c *Commit) Footer() string {
	return c.footer
}

// IsBreaking reports whether the commit declares a breaking change.
func (c *Commit) IsBreaking() bool {
	return c.breaking
}

// BreakingMessage returns the BREAKING CHANGE trailer text, empty for
// bang-only breaking commits.
func (c *Commit) BreakingMessage() string {
	return c.breakingMsg
}

// Graduate reports whether the commit requests promotion out of initial
// development.
func (c *Commit) Graduate() bool {
	return c.graduate
}

// Files returns the repo-relative paths changed by the commit. An empty
// slice means the commit source did not expose file data.
func (c *Commit) Files() []string {
	return c.files
}

// HasFiles reports whether changed-file data is available.
func (c *Commit) HasFiles() bool {
	return len(c.files) > 0
}

// Author returns the commit author name.
func (c *Commit) Author() string {
	return c.author
}

// AuthorEmail returns the commit author email.
func (c *Commit) AuthorEmail() string {
	return c.authorEmail
}

// Date returns the commit date.
func (c *Commit) Date() time.Time {
	return c.date
}

// RawMessage returns the message as it came from the repository.
func (c *Commit) RawMessage() string {
	return c.rawMessage
}

// String renders the canonical one-line form, type(scope)!: subject.
func (c *Commit) String() string {
	head := c.commitType
	if c.scope != "" {
		head += "(" + c.scope + ")"
	}
	if c.breaking {
		head += "!"
	}
	return head + ": " + c.subject
}
