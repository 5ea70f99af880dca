package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"

	"candy-machine-mint-go/internal/candymachine"
	"candy-machine-mint-go/internal/client"
	"candy-machine-mint-go/internal/config"
	"candy-machine-mint-go/internal/logger"
	"candy-machine-mint-go/internal/wallet"
	"candy-machine-mint-go/pkg/utils"
)

const Version = "1.0.0"

// CLI flags
var (
	network        = flag.String("network", "", "Network to use (mainnet/devnet/testnet)")
	candyMachineID = flag.String("candy-machine", "", "Candy machine account address")
	configFile     = flag.String("config", "", "Path to config file")
	envFile        = flag.String("env", "", "Path to .env file")
	logLevel       = flag.String("log-level", "", "Log level (debug/info/warn/error)")

	mintOnce = flag.Bool("mint", false, "Attempt a single mint and exit")
	watch    = flag.Bool("watch", false, "Keep watching candy machine state")
)

// App wires the engine to its network and logging dependencies
type App struct {
	config        *config.Config
	logger        *logger.Logger
	attemptLogger *logger.AttemptLogger
	rpcClient     *client.Client
	wsClient      *client.WSClient
	wallet        *wallet.Wallet
	engine        *candymachine.Engine
	candyMachine  solana.PublicKey
	ctx           context.Context
	cancel        context.CancelFunc
}

func main() {
	flag.Parse()

	cfg := loadConfigurationWithOverrides()

	log, err := logger.NewLogger(logger.LogConfig{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		LogToFile:     cfg.Logging.LogToFile,
		LogFilePath:   cfg.Logging.LogFilePath,
		AttemptLogDir: cfg.Mint.AttemptLogDir,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApp(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create application")
	}

	if err := app.Run(); err != nil {
		log.WithError(err).Fatal("Application failed")
	}
}

func loadConfigurationWithOverrides() *config.Config {
	cfg, err := config.LoadConfig(*configFile, *envFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	applyCliOverrides(cfg)
	return cfg
}

func applyCliOverrides(cfg *config.Config) {
	if *network != "" {
		cfg.Network = *network
		cfg.RPCUrl = config.GetRPCEndpoint(cfg.Network)
		cfg.WSUrl = config.GetWSEndpoint(cfg.Network)
	}
	if *candyMachineID != "" {
		cfg.CandyMachineID = *candyMachineID
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
}

// NewApp wires up all application components
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if !utils.IsValidSolanaAddress(cfg.CandyMachineID) {
		return nil, fmt.Errorf("invalid candy machine address: %s", cfg.CandyMachineID)
	}
	candyMachine := solana.MustPublicKeyFromBase58(cfg.CandyMachineID)

	rpcClient := client.NewClient(client.ClientConfig{
		RPCEndpoint: cfg.RPCUrl,
		APIKey:      cfg.RPCAPIKey,
	}, log.Logger)

	var w *wallet.Wallet
	walletPub := solana.PublicKey{}
	if cfg.PrivateKey != "" || cfg.Mnemonic != "" {
		var err error
		w, err = wallet.NewWallet(wallet.WalletConfig{
			PrivateKey: cfg.PrivateKey,
			Mnemonic:   cfg.Mnemonic,
			Network:    cfg.Network,
		}, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize wallet: %w", err)
		}
		walletPub = w.PublicKey()
	} else {
		log.Warn("No wallet configured, running in watch-only mode")
	}

	attemptLogger, err := logger.NewAttemptLogger(cfg.Mint.AttemptLogDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attempt logger: %w", err)
	}

	var signer candymachine.Signer
	if w != nil {
		signer = w
	}

	engine := candymachine.NewEngine(
		candymachine.NewRPCAdapter(rpcClient),
		signer,
		candyMachine,
		walletPub,
		candymachine.PollConfig{
			Initial:    cfg.PollInterval(),
			Max:        cfg.PollMaxInterval(),
			Multiplier: cfg.Mint.PollBackoffFactor,
			Timeout:    cfg.ConfirmTimeout(),
		},
		log.Logger,
	)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config:        cfg,
		logger:        log,
		attemptLogger: attemptLogger,
		rpcClient:     rpcClient,
		wsClient:      client.NewWSClient(cfg.WSUrl, log.Logger),
		wallet:        w,
		engine:        engine,
		candyMachine:  candyMachine,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Run executes the requested mode and blocks until done or interrupted
func (a *App) Run() error {
	a.logger.LogStartup(Version, a.config.Network, a.config.RPCUrl, a.config.CandyMachineID)
	defer a.logger.LogShutdown("exit")

	view, err := a.engine.Refresh(a.ctx)
	if err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}
	a.reportView(view)

	if *mintOnce {
		return a.runSingleMint()
	}
	if *watch {
		return a.runWatch()
	}

	// Default: report state once and exit
	return nil
}

// runSingleMint performs one mint attempt and records its outcome
func (a *App) runSingleMint() error {
	if a.wallet == nil {
		return fmt.Errorf("minting requires a configured wallet")
	}

	start := time.Now()
	outcome, err := a.engine.AttemptMint(a.ctx)
	if err != nil {
		return fmt.Errorf("mint attempt rejected: %w", err)
	}

	view, _ := a.engine.CurrentView()
	record := logger.AttemptLog{
		Timestamp:     time.Now(),
		CandyMachine:  a.config.CandyMachineID,
		Mint:          outcome.MintID,
		Payer:         a.wallet.PublicKeyString(),
		Signature:     outcome.Signature,
		Outcome:       outcome.Kind.String(),
		ErrorCode:     outcome.Code,
		ErrorMessage:  outcome.Message,
		PriceLamports: view.EffectivePrice,
		Whitelisted:   view.WalletWhitelistBalance > 0,
		ElapsedMs:     time.Since(start).Milliseconds(),
	}
	if err := a.attemptLogger.LogAttempt(record); err != nil {
		a.logger.WithError(err).Warn("Failed to persist attempt record")
	}

	fmt.Println(outcome.UserMessage())
	if outcome.Signature != "" {
		fmt.Println("Transaction:", utils.TxExplorerURL(outcome.Signature, a.config.Network))
	}

	a.reportView(view)
	return nil
}

// runWatch refreshes on a ticker and on account change notifications
func (a *App) runWatch() error {
	refreshTrigger := make(chan struct{}, 1)

	if err := a.wsClient.Connect(); err != nil {
		a.logger.WithError(err).Warn("WebSocket unavailable, falling back to polling only")
	} else {
		defer a.wsClient.Disconnect()
		_, err := a.wsClient.SubscribeToAccount(a.config.CandyMachineID, func(interface{}) error {
			select {
			case refreshTrigger <- struct{}{}:
			default:
			}
			return nil
		})
		if err != nil {
			a.logger.WithError(err).Warn("Account subscription failed")
		}
	}

	ticker := time.NewTicker(a.config.RefreshInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			a.cancel()
			return nil
		case <-a.ctx.Done():
			return nil
		case <-ticker.C:
		case <-refreshTrigger:
		}

		view, err := a.engine.Refresh(a.ctx)
		if err != nil {
			a.logger.WithError(err).Warn("Refresh failed, keeping previous state")
			continue
		}
		a.reportView(view)
	}
}

// reportView logs the current sale state and its presentation
func (a *App) reportView(view candymachine.DerivedView) {
	a.logger.LogStateRefresh(
		utils.ShortenAddress(a.config.CandyMachineID),
		view.ItemsRedeemed,
		view.ItemsAvailable,
		view.IsActive,
	)

	state := candymachine.DerivePresentation(
		view,
		a.wallet != nil,
		a.engine.GatekeeperRequired(),
		time.Now(),
	)

	fmt.Printf("State: %s | Price: %s | Minted: %d/%d (%.1f%%)\n",
		state.Kind.String(),
		view.FormatPrice(a.config.SPLToken.Decimals, a.config.SPLToken.Label),
		view.ItemsRedeemed,
		view.ItemsAvailable,
		view.MintedPercent(),
	)

	if a.wallet != nil {
		a.logger.LogBalance(wallet.BalanceSOL(view.WalletLamports), view.WalletLamports)
	}
}
