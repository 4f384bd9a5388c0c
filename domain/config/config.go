package config

import (
	"crypto/ed25519"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tonkeeper/tongo/wallet"
)

const (
	MainNetwork = "mainnet"
	TestNetwork = "testnet"
)

const (
	defaultRelayInterval     = "30s"
	defaultMaxRetry          = 5
	defaultJettonTransferFee = 50000000 // 0.05 Ton
	defaultMetricsAddr       = ":9100"
)

var (
	ErrorInvalidNetwork = fmt.Errorf("network must be equal to 'mainnet' or 'testnet' only")

	ErrorNoMnemonic          = fmt.Errorf("no mnemonic is defined")
	ErrorMnemonicConflict    = fmt.Errorf("only one of mnemonic or mnemonic_url must be defined")
	ErrorReadingMnemonicFile = fmt.Errorf("error in reading mnemonic file")

	ErrorInvalidRelayInterval = fmt.Errorf("invalid time interval for relay process")
	ErrorInvalidMaxRetry      = fmt.Errorf("max_retry must be a positive number")
	ErrorInvalidTransferFee   = fmt.Errorf("jetton_transfer_fee must be a positive number")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri   string
	network string

	mnemonic               string
	mnemonic_url           string
	driverWalletPrivateKey ed25519.PrivateKey

	relayInterval     time.Duration
	maxRetry          int
	jettonTransferFee uint64
	metricsAddr       string
)

func init() {
	viper.SetDefault("network", MainNetwork)
	viper.SetDefault("relay_interval", defaultRelayInterval)
	viper.SetDefault("max_retry", defaultMaxRetry)
	viper.SetDefault("jetton_transfer_fee", defaultJettonTransferFee)
	viper.SetDefault("metrics_addr", defaultMetricsAddr)
}

// AddConfigPath makes ReadConfig look for a ".wefund.yaml" file in dir.
func AddConfigPath(dir string) {
	viper.AddConfigPath(dir)
	viper.SetConfigType("yaml")
	viper.SetConfigName(".wefund")
}

func ReadConfig(filePath string) {
	if filePath != "" {
		viper.SetConfigFile(filePath)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")

	// Network stuff
	network = strings.TrimSpace(strings.ToLower(viper.GetString("network")))
	if strings.Compare(network, MainNetwork) != 0 && strings.Compare(network, TestNetwork) != 0 {
		return ErrorInvalidNetwork
	}

	//---------------------------------------------------------------
	// relay interval
	strValue := viper.GetString("relay_interval")
	relayInterval, err = time.ParseDuration(strValue)
	if err != nil || relayInterval <= 0 {
		return ErrorInvalidRelayInterval
	}

	maxRetry = viper.GetInt("max_retry")
	if maxRetry <= 0 {
		return ErrorInvalidMaxRetry
	}

	fee := viper.GetInt64("jetton_transfer_fee")
	if fee <= 0 {
		return ErrorInvalidTransferFee
	}
	jettonTransferFee = uint64(fee)

	metricsAddr = strings.TrimSpace(viper.GetString("metrics_addr"))

	// Driver wallet stuff. The wallet is only needed for relaying, see LoadDriverWallet.
	mnemonic = strings.TrimSpace(viper.GetString("mnemonic"))
	mnemonic_url = strings.TrimSpace(viper.GetString("mnemonic_url"))

	return nil
}

// LoadDriverWallet derives the private key of the wallet which relays instructions.
func LoadDriverWallet() error {
	var err error

	if mnemonic == "" && mnemonic_url == "" {
		return ErrorNoMnemonic
	}
	if mnemonic != "" && mnemonic_url != "" {
		return ErrorMnemonicConflict
	}

	seed := mnemonic
	if mnemonic_url != "" {
		seed, err = readMnemonicFile(mnemonic_url)
		if err != nil {
			return ErrorReadingMnemonicFile
		}
	}

	driverWalletPrivateKey, err = wallet.SeedToPrivateKey(strings.TrimSpace(seed))
	if err != nil {
		log.Printf("Failed to get private key - %v\n", err.Error())
		return err
	}

	return nil
}

func readMnemonicFile(filePath string) (string, error) {

	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("Failed to read mmnemonic file - %v\n", err.Error())
		return "", err
	}

	return string(fileContent), nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetNetwork() string {
	return network
}

func GetRelayInterval() time.Duration {
	return relayInterval
}

func GetMaxRetry() int {
	return maxRetry
}

func GetJettonTransferFee() uint64 {
	return jettonTransferFee
}

func GetMetricsAddr() string {
	return metricsAddr
}

func GetDriverWalletPrivateKey() ed25519.PrivateKey {
	return driverWalletPrivateKey
}

// -------------------------------------------------------------------
// Evaluating values

func IsTestNet() bool {
	return strings.Compare(network, TestNetwork) == 0
}
