package login

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"studydesk/internal/storage"
)

// Window handles the login and registration UI.
type Window struct {
	window   fyne.Window
	store    *storage.Store
	username *widget.Entry
	password *widget.Entry
	onLogin  func(username string)
}

// New creates the login window. onLogin runs after a successful sign-in.
func New(app fyne.App, store *storage.Store, onLogin func(username string)) *Window {
	window := app.NewWindow("StudyDesk - Sign In")

	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	login := &Window{
		window:   window,
		store:    store,
		username: username,
		password: password,
		onLogin:  onLogin,
	}

	loginButton := widget.NewButton("Sign In", login.handleLogin)
	registerButton := widget.NewButton("Create Account", login.handleRegister)
	password.OnSubmitted = func(string) { login.handleLogin() }

	content := container.NewVBox(
		widget.NewLabelWithStyle("StudyDesk", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Your study companion", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		username,
		password,
		loginButton,
		registerButton,
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 280))
	window.CenterOnScreen()

	return login
}

// Show displays the login window.
func (login *Window) Show() {
	login.window.Show()
}

// Hide removes the login window without quitting the app.
func (login *Window) Hide() {
	login.window.Hide()
}

func (login *Window) handleLogin() {
	username := login.username.Text
	if err := login.store.Authenticate(username, login.password.Text); err != nil {
		dialog.ShowError(err, login.window)
		return
	}
	login.password.SetText("")
	if login.onLogin != nil {
		login.onLogin(username)
	}
}

func (login *Window) handleRegister() {
	username := login.username.Text
	if err := login.store.RegisterUser(username, login.password.Text); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			dialog.ShowError(errors.New("that username is taken, pick another one"), login.window)
			return
		}
		dialog.ShowError(err, login.window)
		return
	}
	dialog.ShowInformation("Account Created",
		"Account created successfully! You can sign in now.", login.window)
}
