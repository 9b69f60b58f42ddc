package security

import "net/http"

// Filter — один элемент цепочки аутентификации. Matches решает, касается ли
// фильтра запрос; Serve либо отвечает сам, либо передает запрос дальше по next.
// Фильтры независимы: ни один не вызывает другой напрямую
type Filter struct {
	Name    string
	Matches func(r *http.Request) bool
	Serve   func(w http.ResponseWriter, r *http.Request, next http.Handler)
}

// FilterChain собирает фильтры в chi middleware. Каждый запрос идет по
// цепочке по порядку: первый подошедший фильтр получает запрос и решает,
// отвечать самому или пропустить запрос дальше; не подошедшие пропускают
func FilterChain(filters ...Filter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		chain := next
		for i := len(filters) - 1; i >= 0; i-- {
			filter := filters[i]
			downstream := chain
			chain = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if filter.Matches(r) {
					filter.Serve(w, r, downstream)
					return
				}
				downstream.ServeHTTP(w, r)
			})
		}
		return chain
	}
}
