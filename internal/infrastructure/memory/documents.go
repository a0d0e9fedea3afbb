package memory

import (
	"cmp"
	"context"
	"strings"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var (
	_ repository.DocumentTypeRepository = (*documentTypeRepo)(nil)
	_ repository.DocumentRepository     = (*documentRepo)(nil)
)

type documentTypeRepo struct{ s *Store }

func byName(a, b entity.DocumentType) int { return cmp.Compare(a.Name, b.Name) }

func (r *documentTypeRepo) Create(ctx context.Context, t *entity.DocumentType) error {
	err := r.s.lock("document_types.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, x := range r.s.st.docTypes {
		if strings.EqualFold(x.Name, t.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.docTypes[t.ID] = *t
	return nil
}

func (r *documentTypeRepo) Update(ctx context.Context, t *entity.DocumentType) error {
	err := r.s.lock("document_types.update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.st.docTypes[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.docTypes[t.ID] = *t
	return nil
}

func (r *documentTypeRepo) GetByID(ctx context.Context, id string) (*entity.DocumentType, error) {
	err := r.s.lock("document_types.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, ok := r.s.st.docTypes[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *documentTypeRepo) GetByName(ctx context.Context, name string) (*entity.DocumentType, error) {
	err := r.s.lock("document_types.get_by_name")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, t := range r.s.st.docTypes {
		if strings.EqualFold(t.Name, name) {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *documentTypeRepo) List(ctx context.Context, activeOnly bool) ([]*entity.DocumentType, error) {
	err := r.s.lock("document_types.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.docTypes,
		func(t entity.DocumentType) bool { return !activeOnly || t.Active }, byName), nil
}

func (r *documentTypeRepo) ListMandatory(ctx context.Context) ([]*entity.DocumentType, error) {
	err := r.s.lock("document_types.list_mandatory")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.docTypes,
		func(t entity.DocumentType) bool { return t.Active && t.Mandatory }, byName), nil
}

type documentRepo struct{ s *Store }

func (r *documentRepo) Create(ctx context.Context, d *entity.Document) error {
	err := r.s.lock("documents.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	// mismo criterio que el índice parcial uq_documento_vigente
	if d.Title == "" && d.Status.BlocksResubmission() {
		for _, x := range r.s.st.docs {
			if x.CompanyID == d.CompanyID && x.DocumentTypeID == d.DocumentTypeID && x.Title == "" && x.Status.BlocksResubmission() {
				return domain.ErrConflict
			}
		}
	}
	r.s.st.docs[d.ID] = *d
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	err := r.s.lock("documents.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	d, ok := r.s.st.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *documentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *documentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error) {
	err := r.s.lock("documents.list_by_company")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.docs,
		func(d entity.Document) bool { return d.CompanyID == companyID },
		byCreatedDesc(func(d entity.Document) (int64, string) { return d.CreatedAt.UnixNano(), d.ID })), nil
}

func (r *documentRepo) UpdateReview(ctx context.Context, d *entity.Document, from workflow.DocumentStatus) error {
	err := r.s.lock("documents.update_review")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.st.docs[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStatusChanged
	}
	cur.Status = d.Status
	cur.ReviewNote = d.ReviewNote
	cur.ReviewedBy = d.ReviewedBy
	cur.UpdatedAt = d.UpdatedAt
	r.s.st.docs[d.ID] = cur
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	err := r.s.lock("documents.delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	delete(r.s.st.docs, id)
	return nil
}
