package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"tg-datalake/internal/adapters/telegram"
	"tg-datalake/internal/infra/config"
	applog "tg-datalake/internal/infra/log"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLoggerTo(os.Stderr, cfg.AppEnv).With().Str("component", "prober").Logger()

	token, err := readSecret("Token: ")
	if err != nil {
		logger.Fatal().Err(err).Msg("prober: не удалось прочитать токен")
	}

	prober := telegram.NewProber(telegram.ProberConfig{Host: cfg.Telegram.APIHost, Token: token})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, call := range []func(context.Context) (telegram.Response, error){prober.GetMe, prober.GetUpdates} {
		resp, err := call(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("prober: запрос не выполнен")
		}
		logger.Info().Str("method", resp.Method).Int("status", resp.StatusCode).Bool("ok", resp.API.Ok).Msg("prober: ответ получен")
		if err := printJSON(resp.API); err != nil {
			logger.Fatal().Err(err).Msg("prober: не удалось вывести ответ")
		}
	}
}

// readSecret читает строку с терминала без эха.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
