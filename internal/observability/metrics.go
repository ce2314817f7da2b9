package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec

	feedRequestsTotal         *prometheus.CounterVec
	confessionsCreatedTotal   *prometheus.CounterVec
	reactionsTotal            *prometheus.CounterVec
	pollVotesTotal            *prometheus.CounterVec
	commentsCreatedTotal      prometheus.Counter
	commentSubscribersActive  prometheus.Gauge
	chatConnectionsTotal      prometheus.Counter
	chatMessagesSentTotal     *prometheus.CounterVec
	moodLocksCreatedTotal     *prometheus.CounterVec
	moodLocksExpiredTotal     prometheus.Counter
	gameSessionsSavedTotal    *prometheus.CounterVec
	profileStatUpdatesTotal   prometheus.Counter
	expiredRowsDeletedTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spillzone_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		feedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_feed_requests_total",
			Help: "Feed requests partitioned by cache outcome or sample fallback.",
		}, []string{"result"})

		confessionsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_confessions_created_total",
			Help: "Confessions accepted onto the feed, partitioned by tag.",
		}, []string{"tag"})

		reactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_reactions_total",
			Help: "Reaction taps recorded, partitioned by reaction key.",
		}, []string{"reaction"})

		pollVotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_poll_votes_total",
			Help: "Poll votes recorded, partitioned by option.",
		}, []string{"option"})

		commentsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spillzone_comments_created_total",
			Help: "Comments accepted onto confession threads.",
		})

		commentSubscribersActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spillzone_comment_subscribers_active",
			Help: "Live comment stream subscribers currently connected.",
		})

		chatConnectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spillzone_chat_connections_total",
			Help: "Websocket connections accepted into mood rooms.",
		})

		chatMessagesSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_chat_messages_sent_total",
			Help: "Chat messages broadcast, partitioned by sender kind.",
		}, []string{"kind"})

		moodLocksCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_mood_locks_created_total",
			Help: "Mood locks acquired, partitioned by room.",
		}, []string{"room"})

		moodLocksExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spillzone_mood_locks_expired_total",
			Help: "Mood locks cleared lazily after their 24 hour window.",
		})

		gameSessionsSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_game_sessions_saved_total",
			Help: "Mini-game sessions recorded, partitioned by game type.",
		}, []string{"game_type"})

		profileStatUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spillzone_profile_stat_updates_total",
			Help: "Profile stat writes applied from content and game activity.",
		})

		expiredRowsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spillzone_expired_rows_deleted_total",
			Help: "Rows removed by the expiry sweeper, partitioned by kind.",
		}, []string{"kind"})

		prometheus.MustRegister(
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			feedRequestsTotal, confessionsCreatedTotal, reactionsTotal, pollVotesTotal,
			commentsCreatedTotal, commentSubscribersActive,
			chatConnectionsTotal, chatMessagesSentTotal,
			moodLocksCreatedTotal, moodLocksExpiredTotal,
			gameSessionsSavedTotal, profileStatUpdatesTotal, expiredRowsDeletedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// FeedRequests exposes the feed outcome counter.
func FeedRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return feedRequestsTotal
}

// ConfessionsCreated exposes the confession creation counter.
func ConfessionsCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return confessionsCreatedTotal
}

// ReactionsTotal exposes the reaction counter.
func ReactionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return reactionsTotal
}

// PollVotesTotal exposes the poll vote counter.
func PollVotesTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return pollVotesTotal
}

// CommentsCreated exposes the comment creation counter.
func CommentsCreated() prometheus.Counter {
	RegisterMetrics()
	return commentsCreatedTotal
}

// CommentSubscribersActive exposes the live subscriber gauge.
func CommentSubscribersActive() prometheus.Gauge {
	RegisterMetrics()
	return commentSubscribersActive
}

// ChatConnectionsTotal exposes the websocket connection counter.
func ChatConnectionsTotal() prometheus.Counter {
	RegisterMetrics()
	return chatConnectionsTotal
}

// ChatMessagesSent exposes the chat message counter.
func ChatMessagesSent() *prometheus.CounterVec {
	RegisterMetrics()
	return chatMessagesSentTotal
}

// MoodLocksCreated exposes the mood lock acquisition counter.
func MoodLocksCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return moodLocksCreatedTotal
}

// MoodLocksExpired exposes the lazy expiry counter.
func MoodLocksExpired() prometheus.Counter {
	RegisterMetrics()
	return moodLocksExpiredTotal
}

// GameSessionsSaved exposes the game session counter.
func GameSessionsSaved() *prometheus.CounterVec {
	RegisterMetrics()
	return gameSessionsSavedTotal
}

// ProfileStatUpdates exposes the profile stat write counter.
func ProfileStatUpdates() prometheus.Counter {
	RegisterMetrics()
	return profileStatUpdatesTotal
}

// ExpiredRowsDeleted exposes the expiry sweep counter.
func ExpiredRowsDeleted() *prometheus.CounterVec {
	RegisterMetrics()
	return expiredRowsDeletedTotal
}
