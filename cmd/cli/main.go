// Command cli is a terminal client for the DevConnector API: account
// registration and login, session inspection, the public feed and post
// publishing. The bearer token is kept under the user's config directory
// so the session survives between invocations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arlen/devconnector/internal/client/api"
	"github.com/arlen/devconnector/internal/client/session"
	"github.com/arlen/devconnector/internal/logging"
)

const appName = "devconnector"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	base := os.Getenv("DEVCONNECTOR_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	log := logging.New(os.Getenv("APP_ENV"))

	store, err := session.NewFileTokenStore(appName)
	if err != nil {
		return fmt.Errorf("resolve token store: %w", err)
	}

	// The session feeds tokens into the client and the client's 401s
	// feed logouts back into the session.
	sess := session.New(store, nil, log)
	client := api.New(base, sess)
	sess.Wire(client)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return cmdRegister(ctx, client, sess, rest)
	case "login":
		return cmdLogin(ctx, sess, rest)
	case "whoami":
		return cmdWhoami(ctx, sess)
	case "feed":
		return cmdFeed(ctx, client, sess)
	case "post":
		return cmdPost(ctx, client, sess, rest)
	case "logout":
		sess.Logout()
		fmt.Println("logged out")
		return nil
	case "watch":
		return cmdWatch(ctx, sess)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: cli <command> [flags]

commands:
  register   create an account (-name -email -password)
  login      sign in (-email -password)
  whoami     show the current account
  feed       print the public feed
  post       publish a post (-text)
  logout     discard the stored session
  watch      keep the session verified until interrupted`)
}

func cmdRegister(ctx context.Context, c *api.Client, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.Register(ctx, api.RegisterInput{
		Name:            *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *password,
	})
	if err != nil {
		return describe(err)
	}
	fmt.Printf("registered %s <%s>\n", user.Name, user.Email)

	// Sign in right away so the next command is already authenticated.
	if _, err := sess.Login(ctx, *email, *password); err != nil {
		return describe(err)
	}
	fmt.Println("logged in")
	return nil
}

func cmdLogin(ctx context.Context, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := sess.Login(ctx, *email, *password)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func cmdWhoami(ctx context.Context, sess *session.Session) error {
	if err := sess.Hydrate(); err != nil {
		return err
	}
	user, err := sess.Verify(ctx, false)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

func cmdFeed(ctx context.Context, c *api.Client, sess *session.Session) error {
	_ = sess.Hydrate()
	posts, err := c.Feed(ctx)
	if err != nil {
		return describe(err)
	}
	if len(posts) == 0 {
		fmt.Println("no posts yet")
		return nil
	}
	for _, p := range posts {
		fmt.Printf("#%d %s (%s)\n  %s\n  %d likes, %d comments\n",
			p.ID, p.Name, p.CreatedAt.Local().Format(time.DateTime),
			p.Text, len(p.Likes), len(p.Comments))
	}
	return nil
}

func cmdPost(ctx context.Context, c *api.Client, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	text := fs.String("text", "", "post body")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := sess.Hydrate(); err != nil {
		return err
	}
	if _, err := sess.Verify(ctx, false); err != nil {
		return describe(err)
	}
	post, err := c.CreatePost(ctx, *text)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("posted #%d\n", post.ID)
	return nil
}

func cmdWatch(ctx context.Context, sess *session.Session) error {
	if err := sess.Hydrate(); err != nil {
		return err
	}
	if _, err := sess.Verify(ctx, true); err != nil {
		return describe(err)
	}
	fmt.Println("session verified; re-checking every", session.DefaultVerifyInterval)

	v := session.NewVerifier(sess, 0, nil)
	v.Start(ctx)
	defer v.Stop()

	<-ctx.Done()
	fmt.Println("stopping")
	return nil
}

// describe turns an API error into a message with its field details,
// e.g. "Validation failed (email: Email is invalid)".
func describe(err error) error {
	apiErr, ok := api.AsError(err)
	if !ok {
		return err
	}
	if len(apiErr.Fields) == 0 {
		return apiErr
	}
	msg := apiErr.Message
	for field, detail := range apiErr.Fields {
		msg += fmt.Sprintf(" (%s: %s)", field, detail)
	}
	return fmt.Errorf("%s", msg)
}
