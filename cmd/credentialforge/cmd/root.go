package cmd

import "fmt"

func Execute(args []string) error {
	if len(args) < 1 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "generate":
		return cmdGenerate(args[1:])
	case "types":
		return cmdTypes(args[1:])
	case "formats":
		return cmdFormats(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage() {
	fmt.Println(`credentialforge - Generate synthetic documents with embedded fake credentials

Usage:
  credentialforge <command> [options]

Commands:
  generate   Generate a batch of synthetic documents
  types      List registered credential types
  formats    List supported file formats and their embedding modes

Run 'credentialforge <command> --help' for details on a specific command.`)
}
