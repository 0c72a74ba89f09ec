package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hugohenrick/erp-ledger/internal/domain/apperr"
	"github.com/hugohenrick/erp-ledger/internal/domain/document"
	"github.com/hugohenrick/erp-ledger/internal/domain/intent"
	"github.com/hugohenrick/erp-ledger/internal/domain/payment"
	"github.com/hugohenrick/erp-ledger/internal/domain/sale"
)

type saleRepository struct {
	st *state
}

func copySale(s *sale.Sale) *sale.Sale {
	cp := *s
	cp.Items = append([]sale.Item(nil), s.Items...)
	cp.PaymentLines = append([]payment.SettledLine(nil), s.PaymentLines...)
	cp.DeliveryNotes = append([]string(nil), s.DeliveryNotes...)
	return &cp
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if _, ok := r.st.sales[s.ID]; ok {
		return apperr.New("SaleRepository.Create", apperr.ErrConflict, "venda %s já existe", s.ID)
	}
	s.Version = 1
	r.st.sales[s.ID] = copySale(s)
	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	s, ok := r.st.sales[id]
	if !ok {
		return nil, apperr.New("SaleRepository.FindByID", apperr.ErrNotFound, "venda %s", id)
	}
	return copySale(s), nil
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	current, ok := r.st.sales[s.ID]
	if !ok {
		return apperr.New("SaleRepository.Update", apperr.ErrNotFound, "venda %s", s.ID)
	}
	if current.Version != s.Version {
		return apperr.New("SaleRepository.Update", apperr.ErrConflict, "venda %s versão %d, atual %d", s.ID, s.Version, current.Version)
	}
	s.Version++
	r.st.sales[s.ID] = copySale(s)
	return nil
}

type deliveryNoteRepository struct {
	st *state
}

func copyNote(n *document.DeliveryNote) *document.DeliveryNote {
	cp := *n
	cp.Items = append([]document.NoteItem(nil), n.Items...)
	return &cp
}

func (r *deliveryNoteRepository) Create(ctx context.Context, n *document.DeliveryNote) error {
	if _, ok := r.st.notes[n.ID]; ok {
		return apperr.New("DeliveryNoteRepository.Create", apperr.ErrInvalidInput, "remito %s já existe", n.ID)
	}
	n.Version = 1
	r.st.notes[n.ID] = copyNote(n)
	return nil
}

func (r *deliveryNoteRepository) FindByID(ctx context.Context, id string) (*document.DeliveryNote, error) {
	n, ok := r.st.notes[id]
	if !ok {
		return nil, apperr.New("DeliveryNoteRepository.FindByID", apperr.ErrNotFound, "remito %s", id)
	}
	return copyNote(n), nil
}

func (r *deliveryNoteRepository) Update(ctx context.Context, n *document.DeliveryNote) error {
	current, ok := r.st.notes[n.ID]
	if !ok {
		return apperr.New("DeliveryNoteRepository.Update", apperr.ErrNotFound, "remito %s", n.ID)
	}
	if current.Version != n.Version {
		return apperr.New("DeliveryNoteRepository.Update", apperr.ErrConflict, "remito %s versão %d, atual %d", n.ID, n.Version, current.Version)
	}
	n.Version++
	r.st.notes[n.ID] = copyNote(n)
	return nil
}

type installmentRepository struct {
	st *state
}

func copyPlan(p *document.InstallmentPlan) *document.InstallmentPlan {
	cp := *p
	cp.Payments = append([]document.InstallmentPayment{}, p.Payments...)
	if p.DueDate != nil {
		due := *p.DueDate
		cp.DueDate = &due
	}
	return &cp
}

func (r *installmentRepository) Create(ctx context.Context, p *document.InstallmentPlan) error {
	if _, ok := r.st.plans[p.ID]; ok {
		return apperr.New("InstallmentRepository.Create", apperr.ErrInvalidInput, "plano %s já existe", p.ID)
	}
	p.Version = 1
	r.st.plans[p.ID] = copyPlan(p)
	return nil
}

func (r *installmentRepository) FindByID(ctx context.Context, id string) (*document.InstallmentPlan, error) {
	p, ok := r.st.plans[id]
	if !ok {
		return nil, apperr.New("InstallmentRepository.FindByID", apperr.ErrNotFound, "plano %s", id)
	}
	return copyPlan(p), nil
}

func (r *installmentRepository) Update(ctx context.Context, p *document.InstallmentPlan) error {
	current, ok := r.st.plans[p.ID]
	if !ok {
		return apperr.New("InstallmentRepository.Update", apperr.ErrNotFound, "plano %s", p.ID)
	}
	if current.Version != p.Version {
		return apperr.New("InstallmentRepository.Update", apperr.ErrConflict, "plano %s versão %d, atual %d", p.ID, p.Version, current.Version)
	}
	p.Version++
	r.st.plans[p.ID] = copyPlan(p)
	return nil
}

func (r *installmentRepository) ListDue(ctx context.Context, before time.Time) ([]*document.InstallmentPlan, error) {
	out := make([]*document.InstallmentPlan, 0)
	for _, p := range r.st.plans {
		if p.Status == document.PlanActive && p.DueDate != nil && p.DueDate.Before(before) {
			out = append(out, copyPlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

type intentRepository struct {
	st *state
}

func copyIntent(i *intent.Intent) *intent.Intent {
	cp := *i
	cp.Payload = append([]byte(nil), i.Payload...)
	return &cp
}

func (r *intentRepository) Create(ctx context.Context, i *intent.Intent) error {
	if _, ok := r.st.intents[i.ID]; ok {
		return apperr.New("IntentRepository.Create", apperr.ErrConflict, "intenção %s já existe", i.ID)
	}
	r.st.intents[i.ID] = copyIntent(i)
	return nil
}

func (r *intentRepository) FindByID(ctx context.Context, id string) (*intent.Intent, error) {
	i, ok := r.st.intents[id]
	if !ok {
		return nil, apperr.New("IntentRepository.FindByID", apperr.ErrNotFound, "intenção %s", id)
	}
	return copyIntent(i), nil
}

func (r *intentRepository) Update(ctx context.Context, i *intent.Intent) error {
	if _, ok := r.st.intents[i.ID]; !ok {
		return apperr.New("IntentRepository.Update", apperr.ErrNotFound, "intenção %s", i.ID)
	}
	r.st.intents[i.ID] = copyIntent(i)
	return nil
}

func (r *intentRepository) ListPending(ctx context.Context) ([]*intent.Intent, error) {
	out := make([]*intent.Intent, 0)
	for _, i := range r.st.intents {
		if i.Status == intent.StatusPending {
			out = append(out, copyIntent(i))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}
