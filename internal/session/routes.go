package session

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	RouteRoot       = "/"
	RouteProducts   = "/products"
	RoutePriceList  = "/pricelist"
	RouteStatistics = "/statistics"
	RouteCommittees = "/committees"
	RouteRecent     = "/recent"
	RouteProminent  = "/prominent"
	RouteCompucie   = "/compucie"
)

func MembersRoute(rangeIndex int) string { return "/members/" + strconv.Itoa(rangeIndex) }

func CommitteeRoute(id int64) string { return RouteCommittees + "/" + strconv.FormatInt(id, 10) }

var views = func() *chi.Mux {
	noop := func(http.ResponseWriter, *http.Request) {}
	r := chi.NewRouter()
	for _, p := range []string{
		RouteRoot, RouteProducts, RoutePriceList, RouteStatistics, RouteCommittees,
		RouteRecent, RouteProminent, RouteCompucie,
		"/members/{page:[0-9]+}",
		"/committees/{page:[0-9]+}",
	} {
		r.Get(p, noop)
	}
	return r
}()

// Resolve maps a navigation target onto a known view. Unknown targets,
// including the bare member list, land on the root view.
func Resolve(path string) string {
	if views.Match(chi.NewRouteContext(), http.MethodGet, path) {
		return path
	}
	return RouteRoot
}
