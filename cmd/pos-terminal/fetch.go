package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	catalogapp "github.com/dmehra2102/pos-terminal/internal/catalog/application"
	catalog "github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	cataloghttp "github.com/dmehra2102/pos-terminal/internal/catalog/infrastructure/http"
	"github.com/dmehra2102/pos-terminal/internal/session"
	"github.com/dmehra2102/pos-terminal/pkg/apiclient"
)

// fetch loads the catalog once, the same way the terminal does at startup.
func fetch(ctx context.Context, f *flags, out io.Writer) error {
	cfg, log, err := loadConfig(f)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store := session.NewStore(log)
	api := apiclient.New(log, cfg.BackendURL, cfg.FetchTimeout)
	svc := catalogapp.NewService(log, cataloghttp.NewCatalogClient(api), store, nil)
	fetchErr := svc.FetchInitialData(ctx)

	st := store.Snapshot()
	invalid := 0
	for _, p := range st.Products {
		if !p.PriceValid {
			invalid++
		}
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "members\t%d\n", len(st.Members))
	fmt.Fprintf(w, "products\t%d\t(%d unparseable prices)\n", len(st.Products), invalid)
	fmt.Fprintf(w, "board members\t%d\n", len(st.BoardMembers))
	fmt.Fprintf(w, "committees\t%d\n", len(catalog.Committees(st.Committees)))
	if err := w.Flush(); err != nil {
		return err
	}
	return fetchErr
}
