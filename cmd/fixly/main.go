package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"fixly/internal/api"
	"fixly/internal/config"
	"fixly/internal/domain"
	"fixly/internal/events"
	"fixly/internal/export"
	"fixly/internal/lifecycle"
	"fixly/internal/logging"
	"fixly/internal/metrics"
	"fixly/internal/models"
	"fixly/internal/repository"
	"fixly/internal/service"
	"fixly/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

type app struct {
	cfg       *config.Config
	auth      *service.AuthService
	discovery *service.DiscoveryService
	bookings  *service.BookingService
	reviews   *service.ReviewService
	provider  *service.ProviderService
	exporter  *export.Exporter
	logger    *zerolog.Logger
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Session.CredentialsPath), 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create credentials directory")
		return err
	}

	redisClient, views := initViewRepository(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	store := session.NewFileStore(cfg.Session.CredentialsPath)
	sess := session.NewManager(store, views, logger)

	metrics.Register()

	client := api.New(cfg.API, sess, logger)

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, logger)

	a := &app{
		cfg:       cfg,
		auth:      service.NewAuthService(client, sess, views, logger),
		discovery: service.NewDiscoveryService(client, sess, views, cfg.Location.DefaultCity, logger),
		bookings:  service.NewBookingService(client, sess, views, eventBus, logger),
		reviews:   service.NewReviewService(client, sess, views, eventBus, logger),
		provider:  service.NewProviderService(client, sess, views, logger),
		exporter:  export.NewExporter(cfg.Exports.Path, logger),
		logger:    logger,
	}

	return a.dispatch(ctx, os.Args[1:])
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "cli").Logger()

	return cfg, &logger, closer, nil
}

func initViewRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.ViewStateRepository) {
	ttl := cfg.Session.StateTTL()
	fallback := repository.NewMemoryViewRepository(ttl)

	if cfg.Redis.Address == "" {
		return nil, fallback
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, view state falls back to memory")
	}

	primary := repository.NewRedisViewRepository(client, ttl)
	return client, repository.NewFailoverViewRepository(primary, fallback, logger)
}

// subscribeAuditLog mirrors every lifecycle event into the structured log.
func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Str("booking_id", payload.BookingID).
			Str("status", payload.Status).
			Str("actor", payload.Actor).
			Msg("booking event")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingCancelled,
		events.EventBookingAccepted,
		events.EventBookingRejected,
		events.EventBookingCompleted,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	var err error
	switch args[0] {
	case "register":
		err = a.cmdRegister(ctx, args[1:])
	case "login":
		err = a.cmdLogin(ctx, args[1:])
	case "logout":
		err = a.auth.Logout(ctx)
		if err == nil {
			fmt.Println("Logged out.")
		}
	case "profile":
		err = a.cmdProfile(ctx)
	case "categories":
		err = a.cmdCategories(ctx)
	case "city":
		err = a.cmdCity(ctx, args[1:])
	case "providers":
		err = a.cmdProviders(ctx, args[1:])
	case "provider":
		err = a.cmdProviderDetail(ctx, args[1:])
	case "book":
		err = a.cmdBook(ctx, args[1:])
	case "bookings":
		err = a.cmdBookings(ctx)
	case "cancel":
		err = a.cmdCancel(ctx, args[1:])
	case "review":
		err = a.cmdReview(ctx, args[1:])
	case "requests":
		err = a.cmdProviderBookings(ctx)
	case "accept", "reject":
		err = a.cmdDecide(ctx, args[0], args[1:])
	case "complete":
		err = a.cmdComplete(ctx, args[1:])
	case "dashboard":
		err = a.cmdDashboard(ctx)
	case "export":
		err = a.cmdExport(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return a.report(err)
}

// report translates the error taxonomy into user-facing output. Auth
// failures point at login, validation failures list the fields, server
// failures say whether trying again makes sense.
func (a *app) report(err error) error {
	if err == nil {
		return nil
	}

	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		fmt.Println("You need to log in first: fixly login <username> <password>")
		return err
	}

	var valErr *api.ValidationError
	if errors.As(err, &valErr) {
		fmt.Println("Invalid input:")
		if len(valErr.Fields) == 0 {
			fmt.Printf("  %s\n", valErr.Reason)
		}
		for field, messages := range valErr.Fields {
			for _, msg := range messages {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		return err
	}

	var srvErr *api.ServerError
	if errors.As(err, &srvErr) {
		if srvErr.Retryable() {
			fmt.Println("The service is temporarily unavailable. Please try again.")
		} else {
			fmt.Printf("Request failed: %s\n", srvErr.Message)
		}
		return err
	}

	return err
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	asProvider := false
	rest := args[:0:0]
	for _, arg := range args {
		if arg == "--provider" {
			asProvider = true
			continue
		}
		rest = append(rest, arg)
	}
	if len(rest) < 3 {
		return errors.New("usage: fixly register [--provider] <username> <password> <phone>")
	}

	req := models.RegisterRequest{
		Username:    rest[0],
		Password:    rest[1],
		Password2:   rest[1],
		PhoneNumber: rest[2],
	}

	var (
		user *models.User
		err  error
	)
	if asProvider {
		user, err = a.auth.RegisterProvider(ctx, req)
	} else {
		user, err = a.auth.Register(ctx, req)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! You are now logged in.\n", user.Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: fixly login <username> <password>")
	}

	user, redirect, err := a.auth.Login(ctx, models.LoginRequest{Username: args[0], Password: args[1]})
	if err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", user.Username)
	if redirect != "" {
		fmt.Printf("Picking up where you left off: %s\n", redirect)
	}
	return nil
}

func (a *app) cmdProfile(ctx context.Context) error {
	user, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("Email:    %s\n", user.Email)
	}
	if user.Phone != "" {
		fmt.Printf("Phone:    %s\n", user.Phone)
	}
	if user.IsProvider {
		fmt.Println("Account:  service provider")
	}
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	categories, err := a.discovery.Categories(ctx)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		fmt.Println("No service categories available yet.")
		return nil
	}
	for _, c := range categories {
		fmt.Printf("  %s", c.Name)
		if c.Description != "" {
			fmt.Printf(" — %s", c.Description)
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdCity(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Current city: %s\n", a.discovery.SelectedCity(ctx))
		return nil
	}

	city := strings.Join(args, " ")
	if err := a.discovery.ChangeCity(ctx, city); err != nil {
		return err
	}
	fmt.Printf("City set to %s.\n", city)
	return nil
}

func (a *app) cmdProviders(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fixly providers <category>")
	}

	providers, err := a.discovery.Providers(ctx, args[0])
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Printf("No %s providers in %s yet.\n", args[0], a.discovery.SelectedCity(ctx))
		return nil
	}
	for _, p := range providers {
		fmt.Printf("  [%s] %s  %.1f★ (%d reviews)\n", p.ID, p.Name, p.Rating, p.TotalReviews)
		if p.TrustedBy != nil && p.TrustedBy.Count > 0 {
			fmt.Printf("        %s\n", service.TrustMessage(p.TrustedBy))
		}
	}
	return nil
}

func (a *app) cmdProviderDetail(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fixly provider <id>")
	}

	detail, err := a.discovery.ProviderDetail(ctx, args[0])
	if err != nil {
		return err
	}

	p := detail.Provider
	fmt.Printf("%s — %s, %.1f★ (%d reviews)\n", p.Name, p.CategoryName, p.Rating, p.TotalReviews)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Println(service.TrustMessage(detail.TrustedBy))

	buckets, err := a.reviews.ProviderReviews(ctx, args[0])
	if err != nil {
		return err
	}
	printReviews(a.reviews, "From your contacts", buckets.FromContacts)
	printReviews(a.reviews, "From others", buckets.FromOthers)
	return nil
}

func printReviews(svc *service.ReviewService, title string, reviews []models.Review) {
	if len(reviews) == 0 {
		return
	}

	fmt.Printf("\n%s:\n", title)
	for _, r := range reviews {
		marker := ""
		if svc.IsOwnReview(r) {
			marker = " (you)"
		}
		fmt.Printf("  %s%s: %d★", r.Username, marker, r.Rating)
		if r.IsTrusted {
			fmt.Print(" [recommends]")
		}
		if r.Comment != "" {
			fmt.Printf(" — %s", r.Comment)
		}
		fmt.Println()
	}
}

func (a *app) cmdBook(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: fixly book <provider-id> <date YYYY-MM-DD> <time> [notes]")
	}

	date, err := models.ParseDate(args[1])
	if err != nil {
		return &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{"booking_date": {"Use the YYYY-MM-DD format."}},
		}
	}

	booking, err := a.bookings.Create(ctx, models.CreateBookingRequest{
		ProviderID:  args[0],
		BookingDate: date,
		BookingTime: args[2],
		Notes:       strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Booked %s on %s at %s (booking %s).\n",
		booking.ProviderName, booking.BookingDate, booking.BookingTime, booking.ID)
	return nil
}

func (a *app) cmdBookings(ctx context.Context) error {
	buckets, err := a.bookings.Categorized(ctx)
	if err != nil {
		return err
	}

	printBookingSection("Active", buckets.Active, true)
	printBookingSection("Completed", buckets.Completed, true)
	printBookingSection("Cancelled", buckets.Cancelled, true)

	if len(buckets.Active)+len(buckets.Completed)+len(buckets.Cancelled) == 0 {
		fmt.Println("You have no bookings yet.")
	}
	return nil
}

func printBookingSection(title string, bookings []models.Booking, customerView bool) {
	if len(bookings) == 0 {
		return
	}

	fmt.Printf("%s:\n", title)
	for _, b := range bookings {
		status := b.Status
		if customerView {
			status = lifecycle.Parse(b.Status).CustomerLabel()
		}
		name := b.ProviderName
		if !customerView {
			name = b.CustomerName
		}
		fmt.Printf("  [%s] %s — %s %s (%s)\n", b.ID, name, b.BookingDate, b.BookingTime, status)
		if b.Notes != "" {
			fmt.Printf("        %s\n", b.Notes)
		}
	}
}

func (a *app) cmdCancel(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fixly cancel <booking-id>")
	}

	list, err := a.bookings.MyBookings(ctx)
	if err != nil {
		return err
	}
	booking, ok := findBooking(list, args[0])
	if !ok {
		return &api.ValidationError{Reason: "no booking " + args[0]}
	}

	buckets, err := a.bookings.Cancel(ctx, booking)
	if err != nil {
		return err
	}

	fmt.Printf("Booking %s cancelled.\n", args[0])
	printBookingSection("Active", buckets.Active, true)
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: fixly review <provider-id> <rating 1-5> [--recommend] [comment]")
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return &api.ValidationError{
			Reason: "validation failed",
			Fields: map[string][]string{"rating": {"Rating must be a number between 1 and 5."}},
		}
	}

	draft := models.ReviewDraft{}
	draft.SetRating(rating)

	var comment []string
	for _, arg := range args[2:] {
		if arg == "--recommend" {
			draft.SetTrusted(true)
			continue
		}
		comment = append(comment, arg)
	}
	draft.Comment = strings.Join(comment, " ")

	review, err := a.reviews.Submit(ctx, args[0], draft)
	if err != nil {
		return err
	}

	fmt.Printf("Review posted: %d★", review.Rating)
	if review.IsTrusted {
		fmt.Print(" with your recommendation")
	}
	fmt.Println(".")
	return nil
}

func (a *app) cmdProviderBookings(ctx context.Context) error {
	buckets, err := a.bookings.ProviderBookings(ctx)
	if err != nil {
		return err
	}

	printBookingSection("Pending requests", buckets.Pending, false)
	printBookingSection("Accepted", buckets.Accepted, false)
	printBookingSection("Completed", buckets.Completed, false)
	printBookingSection("Cancelled", buckets.Cancelled, false)

	if len(buckets.All) == 0 && len(buckets.Pending) == 0 {
		fmt.Println("No booking requests yet.")
	}
	return nil
}

func (a *app) cmdDecide(ctx context.Context, action string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fixly %s <booking-id>", action)
	}

	booking, err := a.findProviderBooking(ctx, args[0])
	if err != nil {
		return err
	}

	var buckets *models.ProviderBookings
	if action == "accept" {
		buckets, err = a.bookings.Accept(ctx, booking)
	} else {
		buckets, err = a.bookings.Reject(ctx, booking)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Booking %s %sed.\n", args[0], action)
	printBookingSection("Pending requests", buckets.Pending, false)
	return nil
}

func (a *app) cmdComplete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: fixly complete <booking-id> [notes]")
	}

	booking, err := a.findProviderBooking(ctx, args[0])
	if err != nil {
		return err
	}

	_, err = a.bookings.Complete(ctx, booking, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	fmt.Printf("Booking %s completed.\n", args[0])
	return nil
}

func (a *app) findProviderBooking(ctx context.Context, id string) (models.Booking, error) {
	buckets, err := a.bookings.ProviderBookings(ctx)
	if err != nil {
		return models.Booking{}, err
	}

	for _, list := range [][]models.Booking{buckets.All, buckets.Pending, buckets.Accepted, buckets.Completed, buckets.Cancelled} {
		if booking, ok := findBooking(list, id); ok {
			return booking, nil
		}
	}
	return models.Booking{}, &api.ValidationError{Reason: "no booking " + id}
}

func findBooking(bookings []models.Booking, id string) (models.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

func (a *app) cmdDashboard(ctx context.Context) error {
	dashboard, err := a.provider.Dashboard(ctx)
	if err != nil {
		return err
	}

	s := dashboard.Statistics
	fmt.Printf("%s — %s\n", dashboard.Provider.Name, dashboard.Provider.CategoryName)
	fmt.Printf("  Total bookings:   %d\n", s.TotalBookings)
	fmt.Printf("  Pending requests: %d\n", s.PendingRequests)
	fmt.Printf("  This month:       %d\n", s.MonthBookings)
	fmt.Printf("  Average rating:   %.1f\n", s.AverageRating)
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	kind := "my"
	if len(args) > 0 {
		kind = args[0]
	}

	var (
		path string
		err  error
	)
	switch kind {
	case "provider":
		path, err = a.exporter.ProviderReport(ctx, a.bookings)
	case "my":
		path, err = a.exporter.CustomerReport(ctx, a.bookings)
	default:
		return fmt.Errorf("usage: fixly export [my|provider]")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Report saved to %s\n", path)
	return nil
}

func usage() {
	fmt.Println(`fixly — local services marketplace

Browse:
  categories                       list service categories
  city [name]                      show or change the selected city
  providers <category>             list providers in the selected city
  provider <id>                    provider details, trust and reviews

Account:
  register [--provider] <username> <password> <phone>
  login <username> <password>
  logout
  profile

Bookings:
  book <provider-id> <date> <time> [notes]
  bookings                         your bookings, grouped
  cancel <booking-id>
  review <provider-id> <rating> [--recommend] [comment]

For providers:
  requests                         incoming booking requests
  accept <booking-id>
  reject <booking-id>
  complete <booking-id> [notes]
  dashboard

Reports:
  export [my|provider]             save an Excel report`)
}
