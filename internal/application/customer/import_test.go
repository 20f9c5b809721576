package customer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/csvimport"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/memory"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
)

// failingCustomers falla el alta de los clientes con el nombre indicado.
type failingCustomers struct {
	repository.CustomerRepository
	failName string
}

func (f *failingCustomers) Create(ctx context.Context, c *entity.Customer) error {
	if c.Name == f.failName {
		return errors.New("insert rechazado")
	}
	return f.CustomerRepository.Create(ctx, c)
}

// failingLinks falla siempre la inserción de vínculos.
type failingLinks struct {
	repository.CustomerTagRepository
}

func (failingLinks) CreateMany(context.Context, []*entity.CustomerTag) error {
	return errors.New("insert de vínculos rechazado")
}

// failingTags falla la búsqueda de cualquier conjunto de etiquetas que incluya failName.
type failingTags struct {
	repository.TagRepository
	failName string
}

func (f *failingTags) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	for _, n := range names {
		if n == f.failName {
			return nil, errors.New("select de etiquetas rechazado")
		}
	}
	return f.TagRepository.FindByNames(ctx, names)
}

type recordingMetrics struct {
	rows map[string]int
}

func (m *recordingMetrics) ObserveImportRow(outcome string) { m.rows[outcome]++ }
func (m *recordingMetrics) ObserveCompensation(string)      {}
func (m *recordingMetrics) ObserveItemCleanupFailure()      {}
func (m *recordingMetrics) ObserveUpdateItemFailure()       {}

type fixture struct {
	store     *memory.Store
	customers repository.CustomerRepository
	tags      repository.TagRepository
	links     repository.CustomerTagRepository
	metrics   *recordingMetrics
}

func (f *fixture) importer(maxBytes int) *customer.ImportUseCase {
	resolver := tag.NewResolver(f.tags, f.links)
	uc := customer.NewUseCase(f.customers, f.links, resolver, logger.Nop())
	return customer.NewImportUseCase(csvimport.NewParser(), uc, f.metrics, logger.Nop(), maxBytes)
}

func newFixture() *fixture {
	store := memory.NewStore("")
	return &fixture{
		store:     store,
		customers: store.Customers(),
		tags:      store.Tags(),
		links:     store.CustomerTags(),
		metrics:   &recordingMetrics{rows: map[string]int{}},
	}
}

// ─── Import ────────────────────────────────────────────────────────────────────

func TestImport_DuplicateEmailEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	raw := "name,email,tags\n" +
		"Yamada,a@a.com,\"VIP,New\"\n" +
		"Yamada2,a@a.com,\n"

	summary, err := f.importer(0).Import(ctx, []byte(raw), "csv")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, summary.Errors)
	require.Len(t, summary.Duplicates, 1)
	assert.Equal(t, 3, summary.Duplicates[0].Row)

	assert.Equal(t, 2, f.store.Tags().Count())
	list, err := f.store.Customers().List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Yamada", list[0].Name)

	tags, err := f.store.CustomerTags().ListTagsByCustomer(ctx, list[0].ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "VIP", tags[0].Name)
	assert.Equal(t, "New", tags[1].Name)

	assert.Equal(t, 1, f.metrics.rows["success"])
	assert.Equal(t, 1, f.metrics.rows["skipped"])
}

func TestImport_RowFailureIsIsolated(t *testing.T) {
	f := newFixture()
	f.customers = &failingCustomers{CustomerRepository: f.store.Customers(), failName: "Tanaka"}
	raw := "name,email,customer_type,company_name\n" +
		"Yamada,a@a.com,,\n" +
		"Tanaka,b@b.com,,\n" +
		"Sato,c@c.com,company,\n" +
		"Suzuki,d@d.com,company,Suzuki Inc\n"

	summary, err := f.importer(0).Import(context.Background(), []byte(raw), "csv")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, dto.ImportErrorRow, summary.Errors[0].Kind)
	assert.Equal(t, "Tanaka", summary.Errors[0].Data["name"])
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Contains(t, summary.Errors[1].Message, "company_name")

	list, err := f.store.Customers().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImport_AssociationFailureKeepsCustomer(t *testing.T) {
	f := newFixture()
	f.links = failingLinks{CustomerTagRepository: f.store.CustomerTags()}
	raw := "name,tags\nYamada,VIP\nSato,\n"

	summary, err := f.importer(0).Import(context.Background(), []byte(raw), "csv")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Success, "sin etiquetas no hay vínculo que falle")
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Row)

	// efecto parcial documentado: el cliente de la fila fallida queda persistido
	list, err := f.store.Customers().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImport_TagResolutionFailureIsRowError(t *testing.T) {
	f := newFixture()
	f.tags = &failingTags{TagRepository: f.store.Tags(), failName: "Broken"}
	raw := "name,email,tags\n" +
		"Yamada,a@a.com,VIP\n" +
		"Tanaka,b@b.com,\"VIP,Broken\"\n" +
		"Sato,c@c.com,New\n"

	summary, err := f.importer(0).Import(context.Background(), []byte(raw), "csv")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, summary.Total, summary.Success+summary.Failed+summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, dto.ImportErrorRow, summary.Errors[0].Kind)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, "Tanaka", summary.Errors[0].Data["name"])

	// la fila fallida no crea cliente; sus vecinas sí, con sus etiquetas
	list, err := f.store.Customers().List(context.Background(), 10, 0)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Sato", "Yamada"}, names)
	assert.Equal(t, 2, f.store.Tags().Count())
	assert.Equal(t, 1, f.metrics.rows["failed"])
}

func TestImport_CountInvariants(t *testing.T) {
	f := newFixture()
	f.customers = &failingCustomers{CustomerRepository: f.store.Customers(), failName: "Boom"}
	raw := "name,email,customer_type\n" +
		"A,a@x.com,\n" +
		",b@x.com,\n" +
		"B,a@x.com,\n" +
		"Boom,c@x.com,\n" +
		"C,d@x.com,alien\n" +
		"D,e@x.com,\n"

	rows, parseErrors, err := csvimport.NewParser().Parse([]byte(raw), "csv")
	require.NoError(t, err)

	summary, err := f.importer(0).Import(context.Background(), []byte(raw), "csv")
	require.NoError(t, err)

	assert.Equal(t, len(rows)+len(parseErrors), summary.Total)
	failedWithoutParse := summary.Failed - len(parseErrors)
	assert.Equal(t, len(rows), summary.Success+failedWithoutParse+summary.Skipped)
	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 2, summary.Success)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)

	// errores de lectura primero, luego los de escritura
	require.Len(t, summary.Errors, 3)
	assert.Equal(t, dto.ImportErrorParse, summary.Errors[0].Kind)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, dto.ImportErrorParse, summary.Errors[1].Kind)
	assert.Equal(t, 6, summary.Errors[1].Row)
	assert.Equal(t, dto.ImportErrorRow, summary.Errors[2].Kind)
	assert.Equal(t, 5, summary.Errors[2].Row)
}

func TestImport_StructuralFailure(t *testing.T) {
	f := newFixture()

	_, err := f.importer(0).Import(context.Background(), []byte("email\na@a.com\n"), "csv")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.importer(8).Import(context.Background(), []byte("name\nYamada\n"), "csv")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "supera el tamaño máximo")
}

func TestImport_ShiftJISFile(t *testing.T) {
	f := newFixture()
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("氏名,フリガナ\n山田太郎,ヤマダタロウ\n"))
	require.NoError(t, err)

	summary, err := f.importer(0).ImportEncoded(context.Background(), raw, "csv", "sjis")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Success)

	list, err := f.store.Customers().List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "山田太郎", list[0].Name)

	_, err = f.importer(0).ImportEncoded(context.Background(), raw, "csv", "utf8")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestImport_Template(t *testing.T) {
	imp := newFixture().importer(0)

	csvTpl, err := imp.Template("csv")
	require.NoError(t, err)
	assert.Contains(t, string(csvTpl), "customer_type,name,name_kana")

	_, err = imp.Template("pdf")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
