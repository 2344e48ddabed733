package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/engine"
	"exile-tracker/internal/item"
	"exile-tracker/internal/pob"
	"exile-tracker/internal/session"
)

const buildXML = `<PathOfBuilding>
  <Build level="96" className="Marauder" ascendClassName="Juggernaut" buildName="RF Jugg">
    <PlayerStat stat="Life" value="5230"/>
  </Build>
  <Items activeItemSet="1">
    <Item id="1">Rarity: RARE
Doom Strike
Titan Greaves
+68 to maximum Life</Item>
    <ItemSet id="1">
      <Slot name="Boots" itemId="1"/>
    </ItemSet>
  </Items>
</PathOfBuilding>`

// fixedCalc returns the same stats for every artifact.
type fixedCalc struct {
	stats domain.DerivedStats
}

func (c fixedCalc) Compute(context.Context, string) domain.DerivedStats {
	return c.stats
}

func testBuildService(calc engine.Calculator) (*BuildService, session.Store) {
	store := session.NewMemoryStore(time.Minute)
	importer := pob.NewImporter(item.NewNormalizer(zerolog.Nop()), zerolog.Nop())
	engines := engine.Registry{domain.GamePoE1: calc}
	return NewBuildService(importer, engines, store, time.Second, zerolog.Nop()), store
}

func TestBuildService_ImportComputesAndStores(t *testing.T) {
	svc, store := testBuildService(fixedCalc{stats: domain.DerivedStats{Life: 5230, DPS: 1200}})
	ctx := context.Background()

	build, err := svc.Import(ctx, buildXML, domain.GamePoE1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if build.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if build.DerivedStats == nil || build.DerivedStats.Life != 5230 || build.DerivedStats.DPS != 1200 {
		t.Errorf("derived stats not attached: %+v", build.DerivedStats)
	}

	stored, err := store.Get(ctx, build.SessionID)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if stored.Name != "RF Jugg" || stored.CharacterClass != "Marauder" {
		t.Errorf("unexpected stored build: %+v", stored)
	}
}

func TestBuildService_EngineFailureStillImports(t *testing.T) {
	// A failed engine run surfaces as all-zero stats.
	svc, _ := testBuildService(fixedCalc{})

	build, err := svc.Import(context.Background(), buildXML, domain.GamePoE1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if build.DerivedStats == nil || !build.DerivedStats.IsZero() {
		t.Errorf("expected zeroed stats, got %+v", build.DerivedStats)
	}
}

func TestBuildService_ImportRejectsGarbage(t *testing.T) {
	svc, _ := testBuildService(fixedCalc{})

	_, err := svc.Import(context.Background(), "not a transfer code!!!", domain.GamePoE1)
	var importErr *pob.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected ImportError, got %v", err)
	}
}

func TestBuildService_GetAndDelete(t *testing.T) {
	svc, _ := testBuildService(fixedCalc{})
	ctx := context.Background()

	build, err := svc.Import(ctx, buildXML, domain.GamePoE1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if _, err := svc.Get(ctx, build.SessionID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := svc.Delete(ctx, build.SessionID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, build.SessionID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildService_AnalyzeUsesDerivedStats(t *testing.T) {
	svc, _ := testBuildService(fixedCalc{stats: domain.DerivedStats{Life: 5230}})
	ctx := context.Background()

	build, err := svc.Import(ctx, buildXML, domain.GamePoE1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	analysis, err := svc.Analyze(ctx, build.SessionID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.Archetype == "" {
		t.Errorf("expected an archetype")
	}
	if analysis.CurrentStats["life"] != 5230 {
		t.Errorf("analysis should use computed stats: %+v", analysis.CurrentStats)
	}
}
