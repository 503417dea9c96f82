package models

// Counter identifies one usage counter tracked per user.
type Counter string

const (
	CounterRoadmapsCreated   Counter = "roadmaps_created"
	CounterChatMessages      Counter = "chat_messages"
	CounterQuizzesTaken      Counter = "quizzes_taken"
	CounterNotes             Counter = "notes_count"
	CounterTasks             Counter = "tasks_count"
	CounterAISuggestions     Counter = "ai_suggestions"
	CounterAvatarGenerations Counter = "avatar_generations"
)

// Cadence is the reset schedule of a counter.
type Cadence string

const (
	// CadenceMonthly counters reset at the start of each calendar month (UTC).
	CadenceMonthly Cadence = "monthly"
	// CadenceDaily counters reset at the start of each calendar day (UTC).
	CadenceDaily Cadence = "daily"
	// CadenceCumulative counters track live record counts and never reset;
	// deletes decrement them.
	CadenceCumulative Cadence = "cumulative"
)

// CounterCadence maps every counter to its reset schedule.
var CounterCadence = map[Counter]Cadence{
	CounterRoadmapsCreated:   CadenceMonthly,
	CounterChatMessages:      CadenceMonthly,
	CounterQuizzesTaken:      CadenceMonthly,
	CounterAvatarGenerations: CadenceMonthly,
	CounterAISuggestions:     CadenceDaily,
	CounterNotes:             CadenceCumulative,
	CounterTasks:             CadenceCumulative,
}

// UsageSnapshot is the user's consumption for the current accounting
// periods, as served by GET /api/usage.
type UsageSnapshot struct {
	RoadmapsCreated            int `json:"roadmaps_created"`
	ChatMessagesThisMonth      int `json:"chat_messages_this_month"`
	QuizzesTakenThisMonth      int `json:"quizzes_taken_this_month"`
	NotesCount                 int `json:"notes_count"`
	TasksCount                 int `json:"tasks_count"`
	AISuggestionsToday         int `json:"ai_suggestions_today"`
	AvatarGenerationsThisMonth int `json:"avatar_generations_this_month"`
}

// Get returns the snapshot value for a counter.
func (s UsageSnapshot) Get(counter Counter) int {
	switch counter {
	case CounterRoadmapsCreated:
		return s.RoadmapsCreated
	case CounterChatMessages:
		return s.ChatMessagesThisMonth
	case CounterQuizzesTaken:
		return s.QuizzesTakenThisMonth
	case CounterNotes:
		return s.NotesCount
	case CounterTasks:
		return s.TasksCount
	case CounterAISuggestions:
		return s.AISuggestionsToday
	case CounterAvatarGenerations:
		return s.AvatarGenerationsThisMonth
	default:
		return 0
	}
}
