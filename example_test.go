package ifcb_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/ifcb"
	"github.com/hupe1980/ifcb/blobstore"
	"github.com/hupe1980/ifcb/schema"
	"github.com/hupe1980/ifcb/testutil"
)

func Example() {
	ctx := context.Background()

	// A first generation bin whose third target was split across two rows.
	store := blobstore.NewMemoryStore()
	err := testutil.NewFilesetBuilder(schema.V1, 1).
		Add(1, 0, 0, 10, 10).
		Add(2, 50, 50, 8, 6).
		Add(3, 10, 10, 20, 10).
		Add(3, 12, 14, 20, 12).
		Build().
		Put(ctx, store, "IFCB5_2010_100_120000")
	if err != nil {
		log.Fatal(err)
	}

	bin, err := ifcb.Open(ctx, ifcb.NewFileset(store, "IFCB5_2010_100_120000"))
	if err != nil {
		log.Fatal(err)
	}
	defer bin.Close()

	fmt.Println(bin.LID(), bin.Schema(), bin.Timestamp().Format("2006-01-02"))
	fmt.Println("targets:", bin.Len())
	for _, n := range bin.FinalImages().Keys() {
		img, err := bin.Image(ctx, n)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d: %dx%d\n", n, img.Rect.Dy(), img.Rect.Dx())
	}

	// Output:
	// IFCB5_2010_100_120000 v1 2010-04-10
	// targets: 4
	// 1: 10x10
	// 2: 6x8
	// 3: 16x22
}

func ExampleBin_Get() {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	err := testutil.NewFilesetBuilder(schema.V2, 1).
		Add(7, 3, 4, 5, 6).
		Build().
		Put(ctx, store, "D20160102T030405_IFCB101")
	if err != nil {
		log.Fatal(err)
	}

	bin, err := ifcb.Open(ctx, ifcb.NewFileset(store, "D20160102T030405_IFCB101"))
	if err != nil {
		log.Fatal(err)
	}
	defer bin.Close()

	rec, err := bin.Get(ctx, 1)
	if err != nil {
		log.Fatal(err)
	}
	s := bin.Schema()
	fmt.Println("trigger:", rec.Int(s.Trigger))
	fmt.Println("box:", rec.Int(s.RoiX), rec.Int(s.RoiY), rec.Int(s.RoiWidth), rec.Int(s.RoiHeight))

	// Output:
	// trigger: 7
	// box: 3 4 5 6
}
