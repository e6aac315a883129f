package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
)

func printHelp() {
	fmt.Fprintf(os.Stderr, `Copy Schedule

A one-way synchronization tool that mirrors events from an Outlook calendar
export into the primary Google Calendar within a rolling time window.

USAGE:
    %s [OPTIONS]

OPTIONS:
    -h, --help                     Show this help message and exit
    --config FILE                  Path to JSON config file (optional)
                                   All settings can be specified in the config file
    --timezone NAME                IANA timezone both calendars operate in
                                   (default: "Asia/Tokyo")
    --back-days N                  Days to look back from today (default: 7)
    --ahead-days N                 Days to look ahead from today (default: 30)
    --outlook-calendar-path PATH   Path to the exported Outlook calendar (.ics)
    --token-path PATH              Path to store the Google OAuth token
                                   (default: "token.json")
    --google-credentials-path PATH Path to Google OAuth credentials JSON file
                                   (default: "credentials.json")

CONFIGURATION PRECEDENCE (highest to lowest):
    1. Command-line flags
    2. Environment variables
    3. Config file (--config)
    4. Defaults

CONFIG FILE:
    All settings can be specified in a JSON config file. Example:
    {
      "timezone": "Asia/Tokyo",
      "back_days": 7,
      "ahead_days": 30,
      "outlook_calendar_path": "/path/to/outlook.ics",
      "token_path": "/path/to/token.json",
      "google_credentials_path": "/path/to/credentials.json"
    }

    The Google credentials JSON file should be in the format downloaded from
    Google Cloud Console. It should contain either an "installed" or "web"
    section with "client_id" and "client_secret" fields.

ENVIRONMENT VARIABLES:
    All settings can be provided via environment variables (a .env file in
    the working directory is loaded first, if present):
        TIMEZONE                 IANA timezone both calendars operate in
        BACK_DAYS                Days to look back from today
        AHEAD_DAYS               Days to look ahead from today
        OUTLOOK_CALENDAR_PATH    Path to the exported Outlook calendar (.ics)
        TOKEN_PATH               Path to store the Google OAuth token
        GOOGLE_CREDENTIALS_PATH  Path to Google OAuth credentials JSON file

DESCRIPTION:
    Events read from the Outlook calendar are tagged with an " (Outlook)"
    name suffix when created in Google Calendar. On each run, events present
    in Outlook but missing from Google are created, and previously mirrored
    events that no longer exist in Outlook are deleted. Events created
    directly in Google Calendar are never touched.

    Recurring Outlook events are expanded to individual occurrences. Events
    starting and ending exactly at midnight are created as all-day events.

    On first run, you will be prompted to authorize the Google account via
    OAuth 2.0. Subsequent runs use the stored refresh token.

EXAMPLES:
    # Run the sync with a config file
    %s --config /path/to/config.json

    # Run the sync with environment variables
    OUTLOOK_CALENDAR_PATH=/path/to/outlook.ics %s

    # Run the sync with command-line flags
    %s --outlook-calendar-path /path/to/outlook.ics \
       --timezone Asia/Tokyo --back-days 7 --ahead-days 30

    # Show help
    %s --help

`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	// Parse command-line flags
	helpFlag := flag.Bool("help", false, "Show help message")
	helpFlagShort := flag.Bool("h", false, "Show help message (shorthand)")
	configFile := flag.String("config", "", "Path to JSON config file (optional)")
	timezone := flag.String("timezone", "", "IANA timezone both calendars operate in (default: \"Asia/Tokyo\")")
	backDays := flag.String("back-days", "", "Days to look back from today (default: 7)")
	aheadDays := flag.String("ahead-days", "", "Days to look ahead from today (default: 30)")
	outlookCalendarPath := flag.String("outlook-calendar-path", "", "Path to the exported Outlook calendar (.ics)")
	tokenPath := flag.String("token-path", "", "Path to store the Google OAuth token (default: \"token.json\")")
	googleCredentialsPath := flag.String("google-credentials-path", "", "Path to Google OAuth credentials JSON file (default: \"credentials.json\")")
	flag.Parse()

	// Show help if requested
	if *helpFlag || *helpFlagShort {
		printHelp()
		os.Exit(0)
	}

	// Set up logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env overrides if present; not an error when missing.
	_ = godotenv.Load()

	ctx := context.Background()

	// Load configuration (precedence: flags > env vars > config file > defaults)
	config, err := LoadConfig(*configFile, *timezone, *backDays, *aheadDays, *outlookCalendarPath, *tokenPath, *googleCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	location, err := config.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	// Connect to the Outlook calendar store
	outlookCalendar, err := ConnectOutlookCalendar(config.OutlookCalendarPath, location)
	if err != nil {
		log.Fatalf("Failed to connect to Outlook Calendar: %v", err)
	}
	log.Println("connected to Outlook Calendar")

	// Load Google OAuth credentials from the credentials file
	clientID, clientSecret, err := LoadGoogleCredentials(config.GoogleCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to load Google credentials: %v", err)
	}

	googleOAuthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	// Authenticate and connect to Google Calendar
	tokenStore := NewFileTokenStore(config.TokenPath)
	httpClient, err := GetAuthenticatedClient(ctx, googleOAuthConfig, tokenStore)
	if err != nil {
		log.Fatalf("Failed to authenticate Google account: %v", err)
	}

	googleCalendar, err := ConnectGoogleCalendar(ctx, httpClient, config.Timezone)
	if err != nil {
		log.Fatalf("Failed to connect to Google Calendar: %v", err)
	}
	log.Println("connected to Google Calendar")

	// Run the sync
	syncer := NewSyncer(outlookCalendar, googleCalendar, config, location)
	if err := syncer.Run(ctx); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	log.Println("Sync completed successfully.")
}
