package plan

// ExampleTSV is a small tab-delimited plan clients can offer as a starting
// template. It exercises every recognized column.
const ExampleTSV = "block_id\tday\texercise_name\tcategory\ttype\tsets\treps\tweight\tduration\trest\tcues\tguidance\tresistance\tdescription\n" +
	"Week 1\tDay 1\tDynamic Warm-up\tWarm-up\ttime\t1\t\t\t5\t60\tLight movement to prepare joints and muscles\t\t\t\n" +
	"Week 1\tDay 1\tSquats\tPrimary\tweights\t3\t10\t100\t\t90\tKeep chest up and drive through heels\t70% 1RM\t\tBarbell back squat\n" +
	"Week 1\tDay 1\tBench Press\tPrimary\tweights\t3\t8\t80\t\t90\tControl the descent and pause at chest\t\t\t\n" +
	"Week 1\tDay 1\tBand Pull-aparts\tAdditional\tweights\t2\t15\t\t\t45\tSqueeze shoulder blades together\tper side\tRed band\t\n" +
	"Week 1\tDay 1\tBreathing Reset\tCool-down\tmindset\t1\t\t\t3\t0\tSlow nasal breathing, long exhale\t\t\t\n" +
	"Week 2\tDay 1\tSquats\tPrimary\tweights\t4\t8\t105\t\t120\tSame cues, heavier load\t72% 1RM\t\t\n"
