package cli

import (
	"context"
	"fmt"
	"os"

	"medai/internal/common"
	"medai/internal/session"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout, "Enter password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(password)

	if err := a.ctrl.Login(ctx, email, string(password)); err != nil {
		return
	}

	fmt.Printf("Welcome back, %s!\n", a.ctrl.Profile().Name)
}

// Register walks through the registration form. On success the user is
// returned to the login prompt; there is no auto-login.
func (a *App) Register(ctx context.Context) {
	a.ctrl.ToggleRegisterMode()
	defer func() {
		if a.ctrl.RegisterMode() {
			a.ctrl.ToggleRegisterMode()
		}
	}()

	var form session.RegistrationForm
	var err error

	if form.Profile.Name, err = GetSimpleText(a.reader, "Full name", os.Stdout); err != nil {
		fmt.Println(err.Error())
		return
	}
	if form.Profile.Email, err = GetSimpleText(a.reader, "Email", os.Stdout); err != nil {
		fmt.Println(err.Error())
		return
	}
	if form.Profile.Age, err = GetInt(a.reader, "Age (years, optional)", os.Stdout); err != nil {
		fmt.Println("Invalid age")
		return
	}
	if form.Profile.Weight, err = GetNumber(a.reader, "Weight (kg, optional)", os.Stdout); err != nil {
		fmt.Println("Invalid weight")
		return
	}
	if form.Profile.Height, err = GetNumber(a.reader, "Height (cm, optional)", os.Stdout); err != nil {
		fmt.Println("Invalid height")
		return
	}
	if form.Profile.Gender, err = GetSimpleText(a.reader, "Gender (optional)", os.Stdout); err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(os.Stdout, "Confirm password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(confirm)

	form.Password = string(password)
	form.Confirm = string(confirm)

	_ = a.ctrl.Register(ctx, form)
}

func (a *App) ChangePassword(ctx context.Context) {
	current, err := GetPassword(os.Stdout, "Current password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(current)

	next, err := GetPassword(os.Stdout, "New password")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(next)

	_ = a.ctrl.ChangePassword(ctx, string(current), string(next))
}
