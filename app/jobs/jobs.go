// Package jobs holds the background jobs run by the queue workers. Jobs
// carry only ids; everything else is loaded when the job runs so a retry
// sees current data.
package jobs

import (
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/notification"
	"github.com/chiquebutik/butik/pkg/queue"
)

// Deps are shared by every job instance built by the queue.
type Deps struct {
	Notifier   *notification.Notifier
	Contacts   *repositories.ContactRepository
	Orders     *repositories.OrderRepository
	OwnerEmail string
	ShopName   string
	AppURL     string
}

// Register makes every job decodable by q's workers.
func Register(q *queue.Manager, d *Deps) {
	if d.ShopName == "" {
		d.ShopName = "ChiqueButik"
	}
	q.Register(func() queue.Job { return &ContactOwnerEmail{deps: d} })
	q.Register(func() queue.Job { return &ContactConfirmationEmail{deps: d} })
	q.Register(func() queue.Job { return &OrderConfirmationEmail{deps: d} })
}
