package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ocw/internal/composer"
)

// SessionCookie — имя cookie с идентификатором сессии.
const SessionCookie = "ocw_session"

// Session держит Composer одного посетителя между запросами: защёлка
// отправки живёт в сессии, поэтому дубль POST из того же окна браузера
// попадает в тот же Composer и отсекается.
type Session struct {
	ID       string
	Composer *composer.Composer

	mu            sync.Mutex
	flashKind     string
	flash         string
	placedOrderID string
	lastSeen      time.Time
}

// SetFlash запоминает одноразовое уведомление для следующего рендера.
func (s *Session) SetFlash(kind, message, placedOrderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashKind = kind
	s.flash = message
	s.placedOrderID = placedOrderID
}

// TakeFlash возвращает и сбрасывает уведомление.
func (s *Session) TakeFlash() (kind, message, placedOrderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, message, placedOrderID = s.flashKind, s.flash, s.placedOrderID
	s.flashKind, s.flash, s.placedOrderID = "", "", ""
	return kind, message, placedOrderID
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) seenBefore(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(t)
}

// SessionRegistry — реестр сессий по id из cookie.
type SessionRegistry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	newComposer func() *composer.Composer
}

// NewSessionRegistry конструирует реестр; factory создаёт Composer
// для каждой новой сессии.
func NewSessionRegistry(factory func() *composer.Composer) *SessionRegistry {
	return &SessionRegistry{
		sessions:    make(map[string]*Session),
		newComposer: factory,
	}
}

// Get возвращает сессию по id, обновляя отметку активности.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		session.touch()
	}
	return session, ok
}

// Create заводит новую сессию со свежим Composer.
func (r *SessionRegistry) Create() *Session {
	session := &Session{
		ID:       uuid.NewString(),
		Composer: r.newComposer(),
		lastSeen: time.Now(),
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return session
}

// PruneStale удаляет сессии, неактивные дольше границы before,
// и возвращает число удалённых.
func (r *SessionRegistry) PruneStale(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, session := range r.sessions {
		if session.seenBefore(before) {
			delete(r.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len возвращает число активных сессий.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
