package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"shopbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RedisConfig holds connection settings for the Redis-backed session manager.
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
	// TTLSeconds bounds how long an abandoned conversation survives; 0 -> 24h.
	TTLSeconds int `yaml:"ttl_seconds" envconfig:"REDIS_TTL_SECONDS"`
}

const redisOpTimeout = 3 * time.Second

type redisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// storedSession is the wire form of Session. Temp values survive the JSON
// round-trip as strings or json numbers; accessors normalize on read.
type storedSession struct {
	State    State                  `json:"state"`
	TempData map[string]interface{} `json:"temp_data"`
}

// NewRedisManager constructs a Manager backed by Redis so conversation state
// survives restarts and can be shared between instances.
func NewRedisManager(cfg RedisConfig) (Manager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("state: redis ping: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisManager{client: client, ttl: ttl}, nil
}

func sessionKeyFor(userID int64) string {
	return "fsm:session:" + strconv.FormatInt(userID, 10)
}

func (m *redisManager) load(userID int64) *storedSession {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := m.client.Get(ctx, sessionKeyFor(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx, "tg.state", "redis.load.fail",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return &storedSession{State: StateIdle, TempData: make(map[string]interface{})}
	}

	var sess storedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return &storedSession{State: StateIdle, TempData: make(map[string]interface{})}
	}
	if sess.TempData == nil {
		sess.TempData = make(map[string]interface{})
	}
	if sess.State == "" {
		sess.State = StateIdle
	}
	return &sess
}

func (m *redisManager) save(userID int64, sess *storedSession) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := m.client.Set(ctx, sessionKeyFor(userID), data, m.ttl).Err(); err != nil {
		logger.Warn(ctx, "tg.state", "redis.save.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// Get returns the session for a user, or a default idle session.
func (m *redisManager) Get(userID int64) *Session {
	sess := m.load(userID)
	return &Session{State: sess.State, TempData: sess.TempData}
}

// Set updates the state for a user, creating the session if necessary.
func (m *redisManager) Set(userID int64, state State) {
	sess := m.load(userID)
	sess.State = state
	m.save(userID, sess)
}

// SetTemp stores a temporary key/value pair for the given user session.
func (m *redisManager) SetTemp(userID int64, key string, value interface{}) {
	sess := m.load(userID)
	sess.TempData[key] = value
	m.save(userID, sess)
}

// GetTemp retrieves a temporary value by key for the given user session.
func (m *redisManager) GetTemp(userID int64, key string) (interface{}, bool) {
	sess := m.load(userID)
	val, ok := sess.TempData[key]
	return val, ok
}

// GetTempInt64 retrieves a temporary value by key and coerces it to int64.
// JSON decoding turns numbers into float64, so both forms are accepted.
func (m *redisManager) GetTempInt64(userID int64, key string) (int64, bool) {
	val, found := m.GetTemp(userID, key)
	if !found {
		return 0, false
	}
	switch v := val.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// ClearTemp removes a temporary key/value pair for the given user session.
func (m *redisManager) ClearTemp(userID int64, key string) {
	sess := m.load(userID)
	delete(sess.TempData, key)
	m.save(userID, sess)
}

// Clear removes the entire session for a user.
func (m *redisManager) Clear(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = m.client.Del(ctx, sessionKeyFor(userID)).Err()
}

// SetState sets the FSM state for the given user.
func (m *redisManager) SetState(userID int64, st State) {
	m.Set(userID, st)
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *redisManager) GetState(userID int64) State {
	return m.load(userID).State
}

// ClearState resets the FSM state to idle without removing session data.
func (m *redisManager) ClearState(userID int64) {
	sess := m.load(userID)
	sess.State = StateIdle
	m.save(userID, sess)
}

// HasState checks if a user has an active state other than idle.
func (m *redisManager) HasState(userID int64) bool {
	return m.load(userID).State != StateIdle
}

// InProgress reports whether the user currently has an active FSM state.
func (m *redisManager) InProgress(userID int64) bool {
	return m.HasState(userID)
}

// ManagerHandler executes the handler registered for the user's current state, if any.
func (m *redisManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	logger.Debug(context.Background(), "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
