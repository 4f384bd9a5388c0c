package cmd

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/tonkeeper/tongo/liteapi"
	"github.com/tonkeeper/tongo/wallet"

	"wefund/domain/config"
	"wefund/domain/model"
	"wefund/infrastructure/dbhandler"
	"wefund/interface/repository"
	"wefund/usecase"
)

func defaultDependencyInject() {
	var err error
	dbURI := config.GetDbUri()
	dbPool, err = sql.Open("postgres", dbURI)
	if err != nil {
		log.Fatal(err)
	}
	dbPool.SetMaxOpenConns(20)
	dbPool.SetMaxIdleConns(5)
	dbPool.SetConnMaxIdleTime(1 * time.Minute)
	dbPool.SetConnMaxLifetime(4 * time.Hour)

	dbHandler = dbhandler.NewDBHandler(dbPool)

	ledgerRepository := repository.NewLedgerRepository(dbHandler)
	instructionRepository = repository.NewInstructionRepository(dbHandler)

	dispatcher = usecase.NewDefaultDispatcher(ledgerRepository)
}

// relayDependencyInject connects to the network and the driver wallet. It must run after
// defaultDependencyInject.
func relayDependencyInject() {
	var err error

	switch strings.ToLower(config.GetNetwork()) {
	case config.MainNetwork:
		tongoClient, err = liteapi.NewClientWithDefaultMainnet()
	case config.TestNetwork:
		tongoClient, err = liteapi.NewClientWithDefaultTestnet()
	default:
		log.Fatalf("⛔️ Configuration parameter 'network' must be either '%v' or '%v' only.", config.MainNetwork, config.TestNetwork)
	}
	if err != nil {
		log.Fatal("Unable to create tongo client: ", err)
	}

	err = config.LoadDriverWallet()
	if err != nil {
		log.Fatalf("Unable to load driver wallet - %v\n", err.Error())
	}

	driverWallet, err = wallet.New(config.GetDriverWalletPrivateKey(), wallet.V4R2, 0, nil, tongoClient)
	if err != nil {
		log.Fatalf("Unable to connect to driver wallet - %v\n", err.Error())
	}

	driverAddress := driverWallet.GetAddress()
	messageBuilder := model.NewMessageBuilder(config.GetJettonTransferFee(), &driverAddress)
	sender := usecase.SenderFunc(func(ctx context.Context, msg wallet.Message) error {
		return driverWallet.Send(ctx, msg)
	})

	verifyInteractor := usecase.NewVerifyInteractor(instructionRepository, tongoClient, driverAddress)
	relayInteractor = usecase.NewRelayInteractor(instructionRepository, verifyInteractor, messageBuilder, sender, tongoClient,
		driverAddress, config.GetMaxRetry())
}

var dbPool *sql.DB
var dbHandler dbhandler.DBHandler
var instructionRepository *repository.InstructionRepository
var dispatcher *usecase.Dispatcher
var tongoClient *liteapi.Client
var driverWallet wallet.Wallet
var relayInteractor *usecase.RelayInteractor
