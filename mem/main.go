// mem compares the heap cost of holding n random
// integers in a veb.Tree, a google/btree, and a Go map.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/glycerine/veb"
	googbtree "github.com/google/btree"
	"github.com/klauspost/cpuid"
	"github.com/spf13/pflag"
)

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}

func heapAlloc() uint64 {
	runtime.GC()
	mstat := &runtime.MemStats{}
	runtime.ReadMemStats(mstat)
	return mstat.HeapAlloc
}

func main() {
	var (
		n         = pflag.IntP("n", "n", 1_000_000, "number of values to insert")
		structure = pflag.StringP("structure", "s", "veb", "structure to measure: veb, btree or map")
		bits      = pflag.UintP("bits", "b", 32, "universe bits; values are drawn from [0, 2^bits)")
		degree    = pflag.Int("degree", 30, "btree degree")
		rounds    = pflag.Int("rounds", 3, "how many batches of n values to add")
	)
	pflag.Parse()

	probe, err := veb.New(*bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mem: %v\n", err)
		os.Exit(2)
	}
	maxv := probe.MaxValue()

	fmt.Printf("cpu: %v (%v physical cores, %v logical, %v byte cache lines)\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.CacheLine)
	fmt.Printf("structure: %v, n = %v, u = 2^%v\n", *structure, formatUnder(*n), *bits)

	var insert func(x uint64)
	var report func()
	switch *structure {
	case "veb":
		tree, err := veb.New(*bits)
		panicOn(err)
		insert = func(x uint64) { tree.Insert(x) }
		report = func() {
			fmt.Printf("    size = %v; nodes = %v; footprint estimate = %v bytes\n",
				formatUnder(tree.Size()), formatUnder(tree.NodeCount()), formatUnder(int(tree.Footprint())))
		}
	case "btree":
		tree := googbtree.NewG[uint64](*degree, googbtree.Less[uint64]())
		insert = func(x uint64) { tree.ReplaceOrInsert(x) }
		report = func() {
			fmt.Printf("    size = %v\n", formatUnder(tree.Len()))
		}
	case "map":
		var empty struct{}
		gomap := make(map[uint64]struct{})
		insert = func(x uint64) { gomap[x] = empty }
		report = func() {
			fmt.Printf("    size = %v\n", formatUnder(len(gomap)))
		}
	default:
		fmt.Fprintf(os.Stderr, "mem: unknown structure %q\n", *structure)
		os.Exit(2)
	}

	rng := rand.New(rand.NewSource(1))
	prev := heapAlloc()
	for j := range *rounds {
		t0 := time.Now()
		for range *n {
			insert(rng.Uint64() & maxv)
		}
		elap := time.Since(t0)

		ha := heapAlloc()
		fmt.Printf("mstat.HeapAlloc = '%v' (batch = %v; diff = %v bytes; %v per insert)\n",
			formatUnder(int(ha)), j+1, formatUnder(int(ha)-int(prev)), elap/time.Duration(max(*n, 1)))
		report()
		prev = ha
	}
}

func formatUnder(n int) string {
	if n < 0 {
		return "-" + formatUnder(-n)
	}
	str := strconv.FormatInt(int64(n), 10)

	if len(str) <= 3 {
		return str
	}

	// Work from right to left, adding underscores
	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-1-i)%3 == 0 && i != len(str)-1 {
			result = append([]byte{'_'}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	return string(result)
}
