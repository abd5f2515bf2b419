// Package main is the PalmLink command-line client: an interactive shell
// over the profile, contacts, scan and history controllers.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/client/config"
	"github.com/palmlink/palmlink/internal/client/credentials"
	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/client/sync"
	"github.com/palmlink/palmlink/internal/client/view"
	"github.com/palmlink/palmlink/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles everything the shell commands need.
type app struct {
	client    *api.Client
	guard     *session.Guard
	profile   *sync.ProfileController
	contacts  *sync.ContactsController
	history   *sync.HistoryController
	scan      *sync.ScanController
	histList  *view.HistoryList
	grid      *view.ContactGrid
	stdin     *bufio.Scanner
	reqTimeout time.Duration
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.reqTimeout)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(a.stdin.Text())
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	for {
		fmt.Print("palmlink> ")
		if !a.stdin.Scan() {
			break
		}
		line := strings.TrimSpace(a.stdin.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, register, login, logout, profile, edit-profile,")
			fmt.Println("  contacts, add-contact <type> <value> [notes], edit-contact <id> <value> [notes],")
			fmt.Println("  delete-contact <id>, scan <image>, history [filter], exit")
		case "register":
			a.register()
		case "login":
			a.login()
		case "logout":
			if err := a.guard.SignOut(); err != nil {
				fmt.Println("logout failed:", err)
			} else {
				fmt.Println("Logged out")
			}
		case "profile":
			a.showProfile()
		case "edit-profile":
			a.editProfile()
		case "contacts":
			a.listContacts()
		case "add-contact":
			if len(args) < 3 {
				fmt.Println("Usage: add-contact <type> <value> [notes]")
				continue
			}
			a.addContact(args[1], args[2], strings.Join(args[3:], " "))
		case "edit-contact":
			if len(args) < 3 {
				fmt.Println("Usage: edit-contact <id> <value> [notes]")
				continue
			}
			a.editContact(args[1], args[2], strings.Join(args[3:], " "))
		case "delete-contact":
			if len(args) < 2 {
				fmt.Println("Usage: delete-contact <id>")
				continue
			}
			a.deleteContact(args[1])
		case "scan":
			if len(args) < 2 {
				fmt.Println("Usage: scan <image>")
				continue
			}
			a.scanPalm(args[1])
		case "history":
			a.showHistory(strings.Join(args[1:], " "))
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *app) register() {
	email := a.prompt("email: ")
	username := a.prompt("username: ")
	password := a.prompt("password: ")
	imagePath := a.prompt("palm image path: ")

	image, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Println("cannot read palm image:", err)
		return
	}

	ctx, cancel := a.ctx()
	defer cancel()
	resp, err := a.client.Register(ctx, api.RegisterRequest{
		PalmImage: image,
		ImageName: imagePath,
		Email:     email,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		fmt.Println("registration failed:", err)
		return
	}
	fmt.Printf("%s (%s)\n", resp.Message, resp.Email)
}

func (a *app) login() {
	email := a.prompt("email: ")
	password := a.prompt("password: ")

	ctx, cancel := a.ctx()
	defer cancel()
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		fmt.Println("login failed:", err)
		return
	}
	if err := a.guard.SignIn(token); err != nil {
		fmt.Println("cannot store credentials:", err)
		return
	}
	fmt.Println("Logged in")
}

func (a *app) showProfile() {
	ctx, cancel := a.ctx()
	defer cancel()
	a.profile.Load(ctx)

	st := a.profile.State()
	if st.Err != "" {
		fmt.Println("error:", st.Err)
		return
	}
	if st.Profile == nil {
		return
	}
	fmt.Printf("%s <%s>\n", st.Profile.Username, st.Profile.Email)
	if st.Profile.JobTitle != "" || st.Profile.Company != "" {
		fmt.Printf("  %s @ %s\n", st.Profile.JobTitle, st.Profile.Company)
	}
	if st.Profile.Bio != "" {
		fmt.Println(" ", st.Profile.Bio)
	}
	fmt.Printf("  %d contact(s)\n", len(st.Contacts))
}

func (a *app) editProfile() {
	req := api.EditProfileRequest{
		Username: a.prompt("username (empty keeps current): "),
		Bio:      a.prompt("bio: "),
		JobTitle: a.prompt("job title: "),
		Company:  a.prompt("company: "),
	}
	if picture := a.prompt("picture path (optional): "); picture != "" {
		data, err := os.ReadFile(picture)
		if err != nil {
			fmt.Println("cannot read picture:", err)
			return
		}
		req.Picture = data
		req.PictureName = picture
	}

	ctx, cancel := a.ctx()
	defer cancel()
	a.profile.Update(ctx, req)

	st := a.profile.State()
	if st.Err != "" {
		fmt.Println("error:", st.Err)
		return
	}
	fmt.Println("Profile updated")
}

func (a *app) listContacts() {
	ctx, cancel := a.ctx()
	defer cancel()
	a.contacts.Load(ctx)

	st := a.contacts.State()
	if st.Err != "" {
		fmt.Println("error:", st.Err)
		return
	}
	a.grid.SetAll(st.Contacts)
	if a.grid.Len() == 0 {
		fmt.Println("No contacts yet. Use add-contact to create one.")
		return
	}
	for _, c := range a.grid.Items() {
		fmt.Printf("  %-10s %-25s %s  [%s]\n", view.TypeLabel(c.Type), c.Value, c.Notes, c.ID)
	}
}

func (a *app) finishMutation() {
	st := a.contacts.State()
	switch {
	case st.Err != "":
		fmt.Println("error:", st.Err)
	case st.Success != "":
		fmt.Println(st.Success)
	}
	a.contacts.ResetMessages()
}

func (a *app) addContact(ctype, value, notes string) {
	ctx, cancel := a.ctx()
	defer cancel()
	a.contacts.Add(ctx, models.Contact{Type: models.ContactType(ctype), Value: value, Notes: notes})
	a.finishMutation()
}

func (a *app) editContact(id, value, notes string) {
	ctx, cancel := a.ctx()
	defer cancel()
	a.contacts.Edit(ctx, models.Contact{ID: id, Value: value, Notes: notes})
	a.finishMutation()
}

func (a *app) deleteContact(id string) {
	ctx, cancel := a.ctx()
	defer cancel()
	a.contacts.Delete(ctx, id)
	a.finishMutation()
}

func (a *app) scanPalm(imagePath string) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Println("cannot read palm image:", err)
		return
	}

	ctx, cancel := a.ctx()
	defer cancel()
	a.scan.Recognize(ctx, image, imagePath)

	st := a.scan.State()
	if st.Err != "" {
		fmt.Println("error:", st.Err)
		return
	}
	if st.Result == nil {
		return
	}
	fmt.Printf("Recognized: %s <%s>\n", st.Result.Profile.Username, st.Result.Profile.Email)
	for _, c := range st.Result.Contacts {
		fmt.Printf("  %-10s %s\n", view.TypeLabel(c.Type), c.Value)
	}
}

func (a *app) showHistory(filter string) {
	ctx, cancel := a.ctx()
	defer cancel()
	a.history.Load(ctx)

	st := a.history.State()
	if st.Err != "" {
		fmt.Println("error:", st.Err)
		return
	}
	if st.History == nil {
		return
	}

	a.histList.SetItems(st.History.WhoIScanned)
	a.histList.Filter(filter)
	for _, row := range a.histList.Rows() {
		if row.IsHeader() {
			fmt.Printf("-- %s --\n", row.Header)
			continue
		}
		fmt.Printf("  %s  %s\n", row.Item.Profile.Name, view.FormatScanDate(row.Item.TimeScanned))
	}
	fmt.Printf("Scanned by %d other user(s).\n", len(st.History.WhoScannedMe))
}

func main() {
	var (
		configDir string
		baseURL   string
		showVer   bool
	)

	flag.StringVar(&configDir, "config", "", "directory holding config.yaml")
	flag.StringVar(&baseURL, "url", "", "server base URL (overrides config)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("PalmLink Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		log.Fatal(err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath, err = credentials.DefaultPath()
		if err != nil {
			log.Fatal(err)
		}
	}
	store := credentials.NewFileStore(tokenPath)

	client := api.New(cfg.BaseURL, api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	guard := session.NewGuard(store, session.OnSignedOut(func() {
		fmt.Println("Session expired. Please login again.")
	}))

	a := &app{
		client: client,
		guard:  guard,
		profile: sync.NewProfileController(client, guard,
			sync.OnProfileChange(func(st sync.ProfileState) {
				if st.Loading && st.SlowLoad {
					fmt.Println("Still loading your profile...")
				}
			})),
		contacts: sync.NewContactsController(client, guard),
		history:  sync.NewHistoryController(client, guard),
		scan:     sync.NewScanController(client, guard),
		histList: view.NewHistoryList(time.Now),
		grid:     &view.ContactGrid{},
		stdin:      bufio.NewScanner(os.Stdin),
		reqTimeout: cfg.Timeout,
	}

	fmt.Println("PalmLink shell. Type 'help' for a list of commands.")
	a.repl()
}
