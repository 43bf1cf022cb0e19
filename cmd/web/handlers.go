package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/internal/validator"
)

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)

	totalBooks, err := app.models.Books.Count()
	if err != nil {
		app.serverError(w, err)
		return
	}
	data.TotalBooks = totalBooks

	totalMembers, err := app.models.Members.Count()
	if err != nil {
		app.serverError(w, err)
		return
	}
	data.TotalMembers = totalMembers

	activeLoans, err := app.models.Loans.CountActive()
	if err != nil {
		app.serverError(w, err)
		return
	}
	data.ActiveLoans = activeLoans

	overdueLoans, err := app.models.Loans.CountOverdue()
	if err != nil {
		app.serverError(w, err)
		return
	}
	data.OverdueLoans = overdueLoans

	available, err := app.models.Books.Available()
	if err != nil {
		app.serverError(w, err)
		return
	}
	data.AvailableBooks = available

	app.render(w, 200, "home.html", data)
}

// Auth handlers

type userLoginForm struct {
	Username string
	Password string
	validator.Validator
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	if app.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := app.newTemplateData(r)
	data.DisplayNav = false
	data.Form = userLoginForm{}
	app.render(w, 200, "login.html", data)
}

func (app *application) loginPost(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form := userLoginForm{
		Username:  r.FormValue("username"),
		Password:  r.FormValue("password"),
		Validator: *validator.New(),
	}

	form.Check(validator.NotBlank(form.Username), "username", "must be provided")
	form.Check(validator.NotBlank(form.Password), "password", "must be provided")

	if !form.Valid() {
		data := app.newTemplateData(r)
		data.DisplayNav = false
		data.Form = form
		app.render(w, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	user, err := app.models.Users.GetByUsername(form.Username)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			form.AddError("username", "User does not exist")
			data := app.newTemplateData(r)
			data.DisplayNav = false
			data.Form = form
			app.render(w, http.StatusUnprocessableEntity, "login.html", data)
		default:
			app.serverError(w, err)
		}
		return
	}

	match, err := user.Password.Matches(form.Password)
	if err != nil {
		app.serverError(w, err)
		return
	}

	if !match {
		form.AddError("password", "Incorrect password")
		data := app.newTemplateData(r)
		data.DisplayNav = false
		data.Form = form
		app.render(w, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	err = app.session.RenewToken(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.session.Put(r.Context(), "authenticatedUserID", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type userSignupForm struct {
	Username        string
	Password        string
	ConfirmPassword string
	IsAdmin         bool
	validator.Validator
}

func (app *application) signup(w http.ResponseWriter, r *http.Request) {
	if app.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := app.newTemplateData(r)
	data.DisplayNav = false
	data.Form = userSignupForm{}
	app.render(w, 200, "signup.html", data)
}

func (app *application) signupPost(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form := userSignupForm{
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		IsAdmin:         r.FormValue("is_admin") != "",
		Validator:       *validator.New(),
	}

	data.ValidateUsername(&form.Validator, form.Username)
	data.ValidatePasswordPlaintext(&form.Validator, form.Password)
	if _, ok := form.Errors["password"]; !ok {
		form.Check(
			form.ConfirmPassword == form.Password,
			"confirm_password",
			"passwords do not match",
		)
	}

	if !form.Valid() {
		data := app.newTemplateData(r)
		data.DisplayNav = false
		data.Form = form
		app.render(w, http.StatusUnprocessableEntity, "signup.html", data)
		return
	}

	user := &data.User{Username: form.Username, IsAdmin: form.IsAdmin}

	err = user.Password.Set(form.Password)
	if err != nil {
		app.serverError(w, err)
		return
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			form.AddError("username", "this username is already taken")
			data := app.newTemplateData(r)
			data.DisplayNav = false
			data.Form = form
			app.render(w, http.StatusUnprocessableEntity, "signup.html", data)
		default:
			app.serverError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	err := app.session.RenewToken(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.session.Remove(r.Context(), "authenticatedUserID")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Book handlers

type bookForm struct {
	Title  string
	Author string
	ISBN   string
	Year   string
	validator.Validator
}

func (app *application) books(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll()
	if err != nil {
		app.serverError(w, err)
		return
	}

	data := app.newTemplateData(r)
	data.Books = books
	app.render(w, 200, "books.html", data)
}

func parseBookForm(r *http.Request) (bookForm, *data.Book) {
	form := bookForm{
		Title:     r.FormValue("title"),
		Author:    r.FormValue("author"),
		ISBN:      strings.TrimSpace(r.FormValue("isbn")),
		Year:      strings.TrimSpace(r.FormValue("year")),
		Validator: *validator.New(),
	}

	form.Check(validator.NotBlank(form.Title), "title", "must be provided")
	form.Check(validator.NotBlank(form.Author), "author", "must be provided")

	book := &data.Book{
		Title:  strings.TrimSpace(form.Title),
		Author: strings.TrimSpace(form.Author),
	}
	if form.ISBN != "" {
		book.ISBN = &form.ISBN
	}
	if form.Year != "" {
		year, err := strconv.Atoi(form.Year)
		if err != nil {
			form.AddError("year", "must be a whole number")
		} else {
			book.Year = &year
		}
	}

	return form, book
}

func (app *application) createBook(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form, book := parseBookForm(r)
	if !form.Valid() {
		app.flashError(r, "Please fill in all required fields correctly.")
		http.Redirect(w, r, "/books", http.StatusSeeOther)
		return
	}

	err = app.models.Books.Insert(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateISBN):
			app.flashError(r, "A book with this ISBN already exists.")
			http.Redirect(w, r, "/books", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Book added successfully.")
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (app *application) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		app.notFound(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form, book := parseBookForm(r)
	if !form.Valid() {
		app.flashError(r, "Please fill in all required fields correctly.")
		http.Redirect(w, r, "/books", http.StatusSeeOther)
		return
	}
	book.ID = id

	err = app.models.Books.Update(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFound(w, r)
		case errors.Is(err, data.ErrDuplicateISBN):
			app.flashError(r, "A book with this ISBN already exists.")
			http.Redirect(w, r, "/books", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Book updated successfully.")
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (app *application) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		app.notFound(w, r)
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFound(w, r)
		case errors.Is(err, data.ErrActiveLoans):
			app.flashError(r, "This book has an active loan. Take the return first.")
			http.Redirect(w, r, "/books", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Book deleted successfully.")
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (app *application) dedupeBooks(w http.ResponseWriter, r *http.Request) {
	removed, err := app.models.Books.MergeDuplicates()
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.flashInfo(r, fmt.Sprintf("Removed %d duplicate book(s).", removed))
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

func (app *application) importClassics(w http.ResponseWriter, r *http.Request) {
	inserted, err := app.models.Books.ImportClassics()
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.flashInfo(r, fmt.Sprintf("Imported %d classic book(s).", inserted))
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// Member handlers

type memberForm struct {
	Name  string
	Email string
	Phone string
	validator.Validator
}

func (app *application) members(w http.ResponseWriter, r *http.Request) {
	members, err := app.models.Members.GetAll()
	if err != nil {
		app.serverError(w, err)
		return
	}

	data := app.newTemplateData(r)
	data.Members = members
	app.render(w, 200, "members.html", data)
}

func parseMemberForm(r *http.Request) (memberForm, *data.Member) {
	form := memberForm{
		Name:      r.FormValue("name"),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Validator: *validator.New(),
	}

	member := &data.Member{Name: strings.TrimSpace(form.Name)}
	if form.Email != "" {
		member.Email = &form.Email
	}
	if form.Phone != "" {
		member.Phone = &form.Phone
	}

	data.ValidateMember(&form.Validator, member)
	return form, member
}

func (app *application) createMember(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form, member := parseMemberForm(r)
	if !form.Valid() {
		app.flashError(r, "Please fill in all required fields correctly.")
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	err = app.models.Members.Insert(member)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.flashError(r, "Email address already in use.")
			http.Redirect(w, r, "/members", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Member added successfully.")
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (app *application) updateMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		app.notFound(w, r)
		return
	}

	err = r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	form, member := parseMemberForm(r)
	if !form.Valid() {
		app.flashError(r, "Please fill in all required fields correctly.")
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}
	member.ID = id

	err = app.models.Members.Update(member)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFound(w, r)
		case errors.Is(err, data.ErrDuplicateEmail):
			app.flashError(r, "Email address already in use.")
			http.Redirect(w, r, "/members", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Member updated successfully.")
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (app *application) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		app.notFound(w, r)
		return
	}

	err = app.models.Members.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFound(w, r)
		case errors.Is(err, data.ErrActiveLoans):
			app.flashError(r, "This member has an active loan. Take the return first.")
			http.Redirect(w, r, "/members", http.StatusSeeOther)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Member deleted successfully.")
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (app *application) dedupeMembers(w http.ResponseWriter, r *http.Request) {
	removed, err := app.models.Members.MergeDuplicates()
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.flashInfo(r, fmt.Sprintf("Removed %d duplicate member(s).", removed))
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// Loan handlers

func (app *application) loans(w http.ResponseWriter, r *http.Request) {
	available, err := app.models.Books.Available()
	if err != nil {
		app.serverError(w, err)
		return
	}

	members, err := app.models.Members.GetAll()
	if err != nil {
		app.serverError(w, err)
		return
	}

	active, err := app.models.Loans.Active()
	if err != nil {
		app.serverError(w, err)
		return
	}

	data := app.newTemplateData(r)
	data.AvailableBooks = available
	data.Members = members
	data.Loans = active
	app.render(w, 200, "loans.html", data)
}

func (app *application) createLoan(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequest(w, r)
		return
	}

	bookID, err := strconv.ParseInt(r.FormValue("book_id"), 10, 64)
	if err != nil || bookID < 1 {
		app.flashError(r, "Please choose a book.")
		http.Redirect(w, r, "/loans", http.StatusSeeOther)
		return
	}

	memberID, err := strconv.ParseInt(r.FormValue("member_id"), 10, 64)
	if err != nil || memberID < 1 {
		app.flashError(r, "Please choose a member.")
		http.Redirect(w, r, "/loans", http.StatusSeeOther)
		return
	}

	_, err = app.models.Loans.Create(bookID, memberID, r.FormValue("loan_date"), r.FormValue("due_date"))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.flashError(r, "Book or member no longer exists.")
		case errors.Is(err, data.ErrInvalidDate):
			app.flashError(r, "Dates must be valid calendar dates (YYYY-MM-DD).")
		case errors.Is(err, data.ErrInvalidDateRange):
			app.flashError(r, "The loan date must not be after the due date.")
		case errors.Is(err, data.ErrBookUnavailable):
			app.flashError(r, "This book is currently checked out.")
		default:
			app.serverError(w, err)
			return
		}

		http.Redirect(w, r, "/loans", http.StatusSeeOther)
		return
	}

	app.flashInfo(r, "Loan created successfully.")
	http.Redirect(w, r, "/loans", http.StatusSeeOther)
}

func (app *application) returnLoan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		app.notFound(w, r)
		return
	}

	err = app.models.Loans.Return(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFound(w, r)
		default:
			app.serverError(w, err)
		}
		return
	}

	app.flashInfo(r, "Book returned successfully.")
	http.Redirect(w, r, "/loans", http.StatusSeeOther)
}
