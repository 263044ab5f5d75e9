package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var AuthoriseCmd = Authorise{
	command: defaults,
	port:    0,
}

type Authorise struct {
	command
	port uint
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises classroom-sheets to access Google Sheets and Google Drive"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises classroom-sheets to access Google Sheets and Google Drive on behalf of the")
	fmt.Println("  current user and saves the OAuth2 tokens to the tokens directory. Not required when")
	fmt.Println("  using service account credentials.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets authorise --credentials "credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.UintVar(&cmd.port, "port", cmd.port, "Local port for the OAuth2 redirect. Defaults to any available port")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, err := cmd.init(args)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(cmd.credentials)
	if err != nil {
		return err
	}

	var key struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &key); err != nil {
		return fmt.Errorf("invalid credentials file %v (%w)", cmd.credentials, err)
	} else if key.Type == "service_account" {
		infof("Service account credentials do not require authorisation")
		return nil
	}

	config, err := google.ConfigFromJSON(b, SHEETS, DRIVE)
	if err != nil {
		return fmt.Errorf("invalid credentials file %v (%w)", cmd.credentials, err)
	}

	token, err := cmd.authenticate(ctx, config)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	return saveToken(tokensFile(cmd.credentials, cmd.tokenDir()), token)
}

func (cmd *Authorise) authenticate(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%v", cmd.port))
	if err != nil {
		return nil, err
	}

	port := listener.Addr().(*net.TCPAddr).Port
	config.RedirectURL = fmt.Sprintf("http://localhost:%v", port)

	state, err := nonce()
	if err != nil {
		return nil, err
	}

	authorised := make(chan string, 1)
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		code := rq.FormValue("code")

		if rq.FormValue("state") != state || code == "" {
			http.Error(w, "Invalid authorisation response", http.StatusBadRequest)
			return
		}

		select {
		case authorised <- code:
		default:
		}

		fmt.Fprintln(w, "Authorisation complete - you can close this page.")
	})

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			warnf("%v", err)
		}
	}()

	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			warnf("%v", err)
		}
	}()

	// ... open OAuth2 URL in browser
	url := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	if cmd.debug {
		debugf("Redirect URL %v", config.RedirectURL)
	}

	if _, err := exec.Command(BROWSER, url).CombinedOutput(); err != nil {
		fmt.Printf("Could not open the authorisation page in your browser - please open the following link manually:\n\n%v\n\n", url)
	}

	// ... wait for authorisation
	select {
	case <-ctx.Done():
		fmt.Printf("\n.. cancelled\n\n")
		return nil, ctx.Err()

	case code := <-authorised:
		return config.Exchange(ctx, code)
	}
}

func nonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
