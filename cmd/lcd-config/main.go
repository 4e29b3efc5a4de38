// lcd-config saves LCD and button settings to lcd.env so the other tools pick
// them up, and can export them from ~/.profile.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

func main() {
	log.SetFlags(0)
	defaultEnv := os.Getenv("LCD_ENV_FILE")
	if defaultEnv == "" {
		defaultEnv = lcd.EnvFileName
	}
	envFile := flag.String("env", defaultEnv, "env file to write")
	installGlobal := flag.Bool("install-global", false, "append exports from the env file to ~/.profile")
	nonInteractive := flag.Bool("non-interactive", false, "write KEY=VALUE arguments without prompting")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lcd-config [--env FILE] [--install-global | --non-interactive KEY=VALUE...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch {
	case *installGlobal:
		values, err := lcd.ReadEnvFile(*envFile)
		if err != nil {
			log.Fatal(err)
		}
		if len(values) == 0 {
			fmt.Printf("No %s found. Run interactive setup first or use --non-interactive.\n", filepath.Base(*envFile))
			os.Exit(1)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		profile := filepath.Join(home, ".profile")
		if err := lcd.InstallProfileExports(profile, values); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Appended exports to %s. Restart your shell or run: source %s\n", profile, profile)

	case *nonInteractive:
		values, ignored := lcd.ParseKVArgs(flag.Args())
		for _, a := range ignored {
			fmt.Printf("Ignoring argument (not KEY=VALUE): %s\n", a)
		}
		if len(values) == 0 {
			fmt.Println("No KEY=VALUE pairs provided after --non-interactive")
			os.Exit(2)
		}
		for _, k := range lcd.SortedKeys(values) {
			if !known(k) {
				fmt.Printf("Skipping unknown key: %s\n", k)
			}
		}
		if err := lcd.WriteEnvFile(*envFile, values); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote %s\n", *envFile)
		fmt.Println("Done. Tools will auto-load lcd.env if present.")

	default:
		existing, err := lcd.ReadEnvFile(*envFile)
		if err != nil {
			log.Fatal(err)
		}
		values, err := lcd.PromptValues(os.Stdin, os.Stdout, existing, os.LookupEnv)
		if err != nil {
			log.Fatal(err)
		}
		if err := lcd.WriteEnvFile(*envFile, values); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote %s\n", *envFile)
		fmt.Println("Done. Optionally install to ~/.profile with: lcd-config --install-global")
	}
}

func known(key string) bool {
	for _, k := range lcd.EnvKeys {
		if k == key {
			return true
		}
	}
	return false
}
