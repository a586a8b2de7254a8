package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/MJE43/rps-quiz/internal/engine"
	"github.com/MJE43/rps-quiz/internal/games"
)

func main() {
	serverSeed := flag.String("server-seed", "", "revealed server seed")
	clientSeed := flag.String("client-seed", "", "client seed")
	nonce := flag.Uint64("nonce", 0, "nonce of the first game")
	rounds := flag.Int("rounds", 3, "rounds per game")
	count := flag.Int("games", 1, "consecutive nonces to print")
	raw := flag.Bool("raw", false, "print the raw floats behind each draw")
	flag.Parse()

	if *serverSeed == "" || *clientSeed == "" {
		log.Fatal("both -server-seed and -client-seed are required")
	}

	seeds := engine.Seeds{Server: *serverSeed, Client: *clientSeed}
	fmt.Printf("Server seed hash: %s\n", engine.HashServerSeed(seeds.Server))

	for g := 0; g < *count; g++ {
		n := *nonce + uint64(g)
		quiz, err := games.NewRoundEngine(*rounds, engine.NewStream(seeds, n))
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("\nNonce %d\n", n)
		required := quiz.RequiredOutcomes()
		for i, c := range quiz.ComputerMoves() {
			fmt.Printf("  round %d: computer=%-8s required=%-4s answer=%s\n",
				i+1, c, required[i], games.Answer(c, required[i]))
		}

		if *raw {
			// Two draws per round: computer move, then required outcome.
			for i, f := range engine.Floats(seeds.Server, seeds.Client, n, 0, 2*(*rounds)) {
				fmt.Printf("  float %d: %.16f\n", i, f)
			}
		}
	}
}
