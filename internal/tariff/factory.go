package tariff

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"tarif-engine/internal/calendar"

	"github.com/sirupsen/logrus"
)

// ErrUnknownTariffCode aucun calculateur n'est enregistré pour ce code
var ErrUnknownTariffCode = errors.New("unknown tariff code")

// Options dépendances injectées à la construction d'un calculateur
type Options struct {
	Colors   calendar.ColorProvider
	PeakDays calendar.PeakDayProvider
	Logger   *logrus.Logger
}

type Option func(*Options)

func WithColors(p calendar.ColorProvider) Option {
	return func(o *Options) { o.Colors = p }
}

func WithPeakDays(p calendar.PeakDayProvider) Option {
	return func(o *Options) { o.PeakDays = p }
}

// WithCalendar branche un calendrier TEMPO et EJP
func WithCalendar(store *calendar.Store) Option {
	return func(o *Options) {
		o.Colors = store
		o.PeakDays = store
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Constructor construit un calculateur à partir de ses dépendances
type Constructor func(opts Options) Calculator

// Registry table des structures tarifaires disponibles
type Registry struct {
	logger       *logrus.Logger
	mutex        sync.RWMutex
	constructors map[Code]Constructor
	singletons   map[Code]Calculator
}

func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		logger:       logger,
		constructors: make(map[Code]Constructor),
		singletons:   make(map[Code]Calculator),
	}
}

// NewDefaultRegistry registre contenant toutes les offres connues
func NewDefaultRegistry(logger *logrus.Logger) *Registry {
	r := NewRegistry(logger)
	RegisterDefaults(r)
	return r
}

// RegisterDefaults enregistre la liste fermée des structures tarifaires
func RegisterDefaults(r *Registry) {
	r.Register(CodeBase, func(o Options) Calculator { return NewBaseCalculator(o) })
	r.Register(CodeHCHP, func(o Options) Calculator { return NewHCHPCalculator(o) })
	r.Register(CodeTempo, func(o Options) Calculator { return NewTempoCalculator(o) })
	r.Register(CodeEJP, func(o Options) Calculator { return NewEJPCalculator(o) })
	r.Register(CodeSeasonal, func(o Options) Calculator { return NewSeasonalCalculator(o) })
	r.Register(CodeWeekend, func(o Options) Calculator { return NewWeekendCalculator(o) })
	r.Register(CodeNightWeekend, func(o Options) Calculator { return NewNightWeekendCalculator(o) })
}

// Register associe un constructeur à un code. Le dernier enregistrement l'emporte.
func (r *Registry) Register(code Code, ctor Constructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.constructors[code] = ctor
	delete(r.singletons, code)
}

// Get retourne un calculateur. Avec des options, une nouvelle instance est construite,
// sinon l'instance partagée du code est réutilisée.
func (r *Registry) Get(code Code, opts ...Option) (Calculator, error) {
	if len(opts) == 0 {
		r.mutex.RLock()
		calc, ok := r.singletons[code]
		r.mutex.RUnlock()
		if ok {
			return calc, nil
		}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	ctor, ok := r.constructors[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTariffCode, code)
	}

	options := Options{Logger: r.logger}
	for _, opt := range opts {
		opt(&options)
	}

	if len(opts) > 0 {
		return ctor(options), nil
	}

	if calc, ok := r.singletons[code]; ok {
		return calc, nil
	}
	calc := ctor(options)
	r.singletons[code] = calc
	r.logger.Debugf("Tariff calculator %s instantiated", code)
	return calc, nil
}

// Has indique si un code est enregistré
func (r *Registry) Has(code Code) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.constructors[code]
	return ok
}

// Metadata liste les offres triées par ordre d'affichage puis par code
func (r *Registry) Metadata() []Metadata {
	r.mutex.RLock()
	codes := make([]Code, 0, len(r.constructors))
	for code := range r.constructors {
		codes = append(codes, code)
	}
	r.mutex.RUnlock()

	metas := make([]Metadata, 0, len(codes))
	for _, code := range codes {
		calc, err := r.Get(code)
		if err != nil {
			continue
		}
		metas = append(metas, calc.Metadata())
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].DisplayOrder != metas[j].DisplayOrder {
			return metas[i].DisplayOrder < metas[j].DisplayOrder
		}
		return metas[i].Code < metas[j].Code
	})
	return metas
}

// Codes codes enregistrés, dans l'ordre d'affichage
func (r *Registry) Codes() []Code {
	metas := r.Metadata()
	codes := make([]Code, len(metas))
	for i, m := range metas {
		codes[i] = m.Code
	}
	return codes
}
