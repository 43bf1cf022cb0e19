package main

import (
	"net/http"

	"github.com/0xrinful/rush"

	"github.com/ybulut/liblend/ui"
)

func (app *application) routes() http.Handler {
	r := rush.New()
	r.NotFound = http.HandlerFunc(app.notFound)

	fileServer := http.FileServer(http.FS(ui.Files))
	r.Handle("/static/*", fileServer, "GET")

	r.Get("/login", app.login)
	r.Post("/login", app.loginPost)
	r.Get("/signup", app.signup)
	r.Post("/signup", app.signupPost)

	protected := func(h http.HandlerFunc) http.Handler {
		return app.requireAuthentication(h)
	}

	r.Handle("/", protected(app.home), "GET")
	r.Handle("/logout", protected(app.logout), "POST")

	r.Handle("/books", protected(app.books), "GET")
	r.Handle("/books/create", protected(app.createBook), "POST")
	r.Handle("/books/{id}/update", protected(app.updateBook), "POST")
	r.Handle("/books/{id}/delete", protected(app.deleteBook), "POST")
	r.Handle("/books/dedupe", protected(app.dedupeBooks), "POST")
	r.Handle("/books/import", protected(app.importClassics), "POST")

	r.Handle("/members", protected(app.members), "GET")
	r.Handle("/members/create", protected(app.createMember), "POST")
	r.Handle("/members/{id}/update", protected(app.updateMember), "POST")
	r.Handle("/members/{id}/delete", protected(app.deleteMember), "POST")
	r.Handle("/members/dedupe", protected(app.dedupeMembers), "POST")

	r.Handle("/loans", protected(app.loans), "GET")
	r.Handle("/loans/create", protected(app.createLoan), "POST")
	r.Handle("/loans/{id}/return", protected(app.returnLoan), "POST")

	return r
}
