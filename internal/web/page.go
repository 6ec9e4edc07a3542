package web

import (
	"net/http"

	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/web/templates"
)

// handleSupplierPage renders the supplier list as HTML.
func (s *Server) handleSupplierPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	suppliers, err := s.repo.ListSuppliers(ctx, s.doc)
	if err != nil {
		msg := core.MapError(err)
		logging.FromContext(ctx).Error("supplier page", "error", err, "code", msg.Code)
		w.WriteHeader(statusFor(err))
		if rerr := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(ctx, w); rerr != nil {
			logging.FromContext(ctx).Error("render error page", "error", rerr)
		}
		return
	}

	rows := make([]templates.SupplierRow, len(suppliers))
	for i, sup := range suppliers {
		rows[i] = templates.SupplierRow{
			ID:    sup.ID,
			Name:  sup.Name,
			TaxID: sup.TaxID,
			Phone: sup.Phone,
			Email: sup.Email,
		}
	}
	if err := templates.SupplierPage(rows).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render supplier page", "error", err)
	}
}
