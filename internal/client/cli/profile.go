package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

func (a *App) printProfile() {
	p := a.ctrl.Profile()
	fmt.Println("Name:   ", p.Name)
	fmt.Println("Email:  ", p.Email)
	if p.Age > 0 {
		fmt.Println("Age:    ", p.Age, "yrs")
	}
	if p.Weight > 0 {
		fmt.Printf("Weight:  %g kg\n", p.Weight)
	}
	if p.Height > 0 {
		fmt.Printf("Height:  %g cm\n", p.Height)
	}
	if p.Gender != "" {
		fmt.Println("Gender: ", p.Gender)
	}
	if p.Phone != "" {
		fmt.Println("Phone:  ", p.Phone)
	}
	if p.City != "" || p.State != "" || p.Country != "" {
		fmt.Printf("Address: %s, %s, %s\n", p.City, p.State, p.Country)
	}
	if v, label, ok := a.ctrl.BMI(); ok {
		fmt.Printf("BMI:     %.1f (%s)\n", v, label)
	}
	if p.Photo != "" {
		fmt.Printf("Photo:   attached (%d bytes)\n", len(p.Photo))
	}
}

// EditProfile prompts for each field; an empty answer keeps the stored value.
func (a *App) EditProfile(ctx context.Context) {
	p := a.ctrl.Profile()

	prompt := func(label, current string) string {
		s, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), os.Stdout)
		if err != nil || s == "" {
			return current
		}
		return s
	}
	promptNumber := func(label string, current float64) float64 {
		v, err := GetNumber(a.reader, fmt.Sprintf("%s [%g]", label, current), os.Stdout)
		if err != nil || v == 0 {
			return current
		}
		return v
	}

	p.Name = prompt("Full name", p.Name)
	p.Email = prompt("Email", p.Email)
	if age, err := GetInt(a.reader, fmt.Sprintf("Age [%d]", p.Age), os.Stdout); err == nil && age > 0 {
		p.Age = age
	}
	p.Weight = promptNumber("Weight (kg)", p.Weight)
	p.Height = promptNumber("Height (cm)", p.Height)
	p.Gender = prompt("Gender", p.Gender)
	p.Phone = prompt("Phone", p.Phone)
	p.City = prompt("City", p.City)
	p.State = prompt("State", p.State)
	p.Country = prompt("Country", p.Country)

	if err := a.ctrl.UpdateProfile(ctx, p); err != nil {
		return
	}
	a.printProfile()
}

// AttachPhoto loads an image file, encodes it, and stores it on the profile.
// Oversized files are rejected by the controller before any write.
func (a *App) AttachPhoto(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: photo <file>")
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("Could not read file:", err.Error())
		return
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := a.ctrl.SetPhoto(encoded); err != nil {
		return
	}
	if err := a.ctrl.UpdateProfile(ctx, a.ctrl.Profile()); err != nil {
		return
	}
	fmt.Println("Photo attached.")
}
