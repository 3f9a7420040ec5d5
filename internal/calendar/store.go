package calendar

import (
	"sync"
	"time"
)

// Store calendrier TEMPO/EJP en mémoire, partagé entre le client MQTT et les calculs
type Store struct {
	colors    map[string]Color
	peakDays  map[string]bool
	updatedAt time.Time
	mutex     sync.RWMutex

	onUpdate func()
}

func NewStore() *Store {
	return &Store{
		colors:   make(map[string]Color),
		peakDays: make(map[string]bool),
	}
}

// SetUpdateCallback appelé après chaque modification du calendrier
func (s *Store) SetUpdateCallback(callback func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onUpdate = callback
}

func (s *Store) SetColor(date time.Time, c Color) {
	s.mutex.Lock()
	s.colors[DateKey(date)] = c
	s.updatedAt = time.Now()
	callback := s.onUpdate
	s.mutex.Unlock()

	if callback != nil {
		callback()
	}
}

func (s *Store) SetPeakDay(date time.Time, peak bool) {
	s.mutex.Lock()
	s.peakDays[DateKey(date)] = peak
	s.updatedAt = time.Now()
	callback := s.onUpdate
	s.mutex.Unlock()

	if callback != nil {
		callback()
	}
}

func (s *Store) Color(date time.Time) (Color, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	c, ok := s.colors[DateKey(date)]
	return c, ok
}

func (s *Store) IsPeakDay(date time.Time) (bool, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	peak, ok := s.peakDays[DateKey(date)]
	return peak, ok
}

// Merge importe un calendrier chargé depuis un fichier
func (s *Store) Merge(f File) {
	s.mutex.Lock()
	for k, c := range f.Tempo {
		s.colors[k] = c
	}
	for k, peak := range f.EJP {
		s.peakDays[k] = peak
	}
	s.updatedAt = time.Now()
	s.mutex.Unlock()
}

// Len nombre de jours TEMPO et EJP connus
func (s *Store) Len() (colors int, peakDays int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.colors), len(s.peakDays)
}

func (s *Store) UpdatedAt() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.updatedAt
}
