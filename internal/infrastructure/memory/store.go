// Package memory implementa los puertos de repositorio en memoria. Lo usan los tests de
// casos de uso y de handlers; Run hace rollback restaurando una copia del estado.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	users         map[string]entity.User
	roles         map[string]entity.RoleAssignment
	resets        map[string]entity.PasswordReset
	companies     map[string]entity.Company
	cnaes         []entity.SecondaryCNAE
	registrations []entity.Registration
	docTypes      map[string]entity.DocumentType
	docs          map[string]entity.Document
	plans         map[string]entity.Plan
	services      map[string]entity.Service
	subs          map[string]entity.PlanSubscription
	contracts     map[string]entity.ServiceContract
	certs         map[string]entity.DigitalCertificate
	invoices      map[string]entity.InvoiceRequest
	notifications map[string]entity.Notification
	budgets       map[string]entity.BudgetConfig
	audit         []entity.AuditEntry
}

func newState() state {
	return state{
		users:         map[string]entity.User{},
		roles:         map[string]entity.RoleAssignment{},
		resets:        map[string]entity.PasswordReset{},
		companies:     map[string]entity.Company{},
		docTypes:      map[string]entity.DocumentType{},
		docs:          map[string]entity.Document{},
		plans:         map[string]entity.Plan{},
		services:      map[string]entity.Service{},
		subs:          map[string]entity.PlanSubscription{},
		contracts:     map[string]entity.ServiceContract{},
		certs:         map[string]entity.DigitalCertificate{},
		invoices:      map[string]entity.InvoiceRequest{},
		notifications: map[string]entity.Notification{},
		budgets:       map[string]entity.BudgetConfig{},
	}
}

func (st state) clone() state {
	return state{
		users:         maps.Clone(st.users),
		roles:         maps.Clone(st.roles),
		resets:        maps.Clone(st.resets),
		companies:     maps.Clone(st.companies),
		cnaes:         slices.Clone(st.cnaes),
		registrations: slices.Clone(st.registrations),
		docTypes:      maps.Clone(st.docTypes),
		docs:          maps.Clone(st.docs),
		plans:         maps.Clone(st.plans),
		services:      maps.Clone(st.services),
		subs:          maps.Clone(st.subs),
		contracts:     maps.Clone(st.contracts),
		certs:         maps.Clone(st.certs),
		invoices:      maps.Clone(st.invoices),
		notifications: maps.Clone(st.notifications),
		budgets:       maps.Clone(st.budgets),
		audit:         slices.Clone(st.audit),
	}
}

// Store base de datos en memoria. Seguro para uso concurrente.
// txMu serializa las transacciones; mu protege cada operación suelta.
type Store struct {
	txMu  sync.Mutex
	mu    sync.Mutex
	st    state
	ops   []string
	fails map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), fails: map[string]error{}}
}

// Repos devuelve los repositorios atados al store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:         &userRepo{s},
		Roles:         &roleRepo{s},
		Resets:        &resetRepo{s},
		Companies:     &companyRepo{s},
		DocumentTypes: &documentTypeRepo{s},
		Documents:     &documentRepo{s},
		Plans:         &planRepo{s},
		Services:      &serviceRepo{s},
		Subscriptions: &subscriptionRepo{s},
		Contracts:     &contractRepo{s},
		Certificates:  &certificateRepo{s},
		Invoices:      &invoiceRepo{s},
		Notifications: &notificationRepo{s},
		Budgets:       &budgetRepo{s},
		Audit:         &auditRepo{s},
	}
}

// Run ejecuta fn; si devuelve error el estado vuelve al de antes de la llamada.
// Las transacciones no se solapan: equivale a bloquear todas las filas que fn lee.
// No es reentrante.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// FailOn hace que la operación indicada ("companies.create", ...) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[op] = err
}

// Ops operaciones ejecutadas desde la creación o el último ResetOps.
func (s *Store) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ops)
}

// ResetOps limpia el registro de operaciones.
func (s *Store) ResetOps() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// Audit entradas de auditoría registradas.
func (s *Store) Audit() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.audit)
}

// lock registra la operación y devuelve el error inyectado, con el mutex tomado.
// El llamador debe liberar con s.mu.Unlock().
func (s *Store) lock(op string) error {
	s.mu.Lock()
	s.ops = append(s.ops, op)
	return s.fails[op]
}

func sortedValues[T any](m map[string]T, keep func(T) bool, less func(a, b T) int) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		if keep != nil && !keep(v) {
			continue
		}
		out = append(out, &v)
	}
	slices.SortFunc(out, func(a, b *T) int { return less(*a, *b) })
	return out
}

func page[T any](list []*T, limit, offset int) []*T {
	if offset > len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
