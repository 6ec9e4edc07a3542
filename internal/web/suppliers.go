package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
)

// stagedItem is one product of a save request. Resolution settles a
// collision with an earlier item of the same request.
type stagedItem struct {
	core.ProductItem
	Resolution string `json:"resolution,omitempty"`
}

type createSupplierRequest struct {
	Supplier core.SupplierInput `json:"supplier"`
	Items    []stagedItem       `json:"items" validate:"dive"`
}

type addProductsRequest struct {
	Items []stagedItem `json:"items" validate:"required,min=1,dive"`
}

// SaveResponse is returned by the create and add-products endpoints.
type SaveResponse struct {
	ID    string             `json:"id"`
	Items []core.ProductItem `json:"items"`
	// SavedTo is set when the upload failed and the document was written
	// to a local file instead.
	SavedTo string `json:"savedTo,omitempty"`
}

// stage runs the request items through a Batch. A duplicate identity needs
// an explicit resolution; without one the request is rejected.
func stage(items []stagedItem) ([]core.ProductItem, error) {
	var (
		batch  core.Batch
		fields []apperr.FieldError
	)
	for i, it := range items {
		idx, dup := batch.Stage(it.ProductItem)
		if !dup {
			continue
		}
		res, ok := core.ParseResolution(it.Resolution)
		if !ok {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("items[%d].resolution", i),
				Message: fmt.Sprintf("same product as item %d; use \"overwrite\" or \"variant\"", idx),
			})
			continue
		}
		if err := batch.Resolve(idx, it.ProductItem, res); err != nil {
			return nil, err
		}
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}
	return batch.Items(), nil
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.repo.ListSuppliers(r.Context(), s.doc)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if suppliers == nil {
		suppliers = []core.Supplier{}
	}
	writeJSON(w, r, http.StatusOK, suppliers)
}

func (s *Server) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sup, ok, err := s.repo.GetSupplier(r.Context(), s.doc, id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if !ok {
		respondError(w, r, apperr.NotFound("supplier", id), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, sup)
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	items, err := stage(req.Items)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	ctx, rep := transport.ContextWithSaveReport(r.Context())
	id, err := s.repo.SaveSupplierWithProducts(ctx, s.doc, req.Supplier, items)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("supplier created", "supplier_id", id, "items", len(items))
	writeJSON(w, r, http.StatusCreated, SaveResponse{ID: id, Items: items, SavedTo: rep.FallbackPath()})
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in core.SupplierInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx, rep := transport.ContextWithSaveReport(r.Context())
	sup := core.Supplier{
		ID:      id,
		Name:    in.Name,
		TaxID:   in.TaxID,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Notes:   in.Notes,
	}
	if err := s.repo.UpdateSupplierBasic(ctx, s.doc, sup); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if p := rep.FallbackPath(); p != "" {
		writeJSON(w, r, http.StatusOK, SaveResponse{ID: id, SavedTo: p})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSupplierProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	products, err := s.repo.ListProductsForSupplier(r.Context(), s.doc, id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if products == nil {
		products = []core.SuppliedProduct{}
	}
	writeJSON(w, r, http.StatusOK, products)
}

func (s *Server) handleAddSupplierProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req addProductsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	items, err := stage(req.Items)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	ctx, rep := transport.ContextWithSaveReport(r.Context())
	if err := s.repo.UpsertProductsForSupplier(ctx, s.doc, id, items); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("supplier products saved", "supplier_id", id, "items", len(items))
	writeJSON(w, r, http.StatusOK, SaveResponse{ID: id, Items: items, SavedTo: rep.FallbackPath()})
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	res, err := core.Bootstrap(r.Context(), s.doc)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if res.Created == nil {
		res.Created = []string{}
	}
	writeJSON(w, r, http.StatusOK, res)
}
